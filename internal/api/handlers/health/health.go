package health

import (
	"net/http"
	"runtime"
	"time"

	"cocktail-advisor/internal/core/catalog"
	"cocktail-advisor/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Catalog   CatalogStatus          `json:"catalog"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// CatalogStatus 配方目錄狀態
type CatalogStatus struct {
	Loaded  bool `json:"loaded"`
	Recipes int  `json:"recipes"`
}

// Handler 健康檢查處理程序
type Handler struct {
	config  *config.Config
	catalog *catalog.Service
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, catalogService *catalog.Service) *Handler {
	return &Handler{
		config:  cfg,
		catalog: catalogService,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Catalog: CatalogStatus{
			Loaded:  h.catalog.Len() > 0,
			Recipes: h.catalog.Len(),
		},
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
// 空目錄仍視為就緒：代表「暫無推薦可用」的降級狀態，而非故障
func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"recipes": h.catalog.Len(),
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
