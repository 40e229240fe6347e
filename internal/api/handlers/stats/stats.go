package stats

import (
	"net/http"

	"cocktail-advisor/internal/core/catalog"
	"cocktail-advisor/internal/core/session"
	userStore "cocktail-advisor/internal/core/user"

	"github.com/gin-gonic/gin"
)

// Handler 儀表板統計處理程序
type Handler struct {
	catalog *catalog.Service
	store   *userStore.Store
	cache   session.Cache
}

// NewHandler 創建統計處理程序
func NewHandler(catalogService *catalog.Service, store *userStore.Store, cache session.Cache) *Handler {
	return &Handler{
		catalog: catalogService,
		store:   store,
		cache:   cache,
	}
}

// HandleStats 回傳目錄與使用者統計
func (h *Handler) HandleStats(c *gin.Context) {
	response := gin.H{
		"catalog": h.catalog.Stats(),
		"users":   h.store.Stats(),
	}
	if h.cache != nil {
		response["cache"] = h.cache.Stats()
	}

	c.JSON(http.StatusOK, response)
}
