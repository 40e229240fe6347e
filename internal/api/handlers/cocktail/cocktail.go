package cocktail

import (
	"net/http"
	"strconv"
	"strings"

	"cocktail-advisor/internal/core/catalog"
	"cocktail-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Summary 搜尋結果列表中的單筆摘要
type Summary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Category  string `json:"category,omitempty"`
	Alcoholic bool   `json:"alcoholic"`
}

// SearchResponse 名稱搜尋響應
// count 讓呼叫端區分 0／1／多筆：恰好 1 筆時直接附完整配方
type SearchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Recipe  *common.Recipe `json:"recipe,omitempty"`
	Results []Summary      `json:"results,omitempty"`
}

// Handler 調酒查詢處理程序
type Handler struct {
	catalog    *catalog.Service
	maxResults int
}

// NewHandler 創建調酒查詢處理程序
func NewHandler(catalogService *catalog.Service, maxResults int) *Handler {
	return &Handler{
		catalog:    catalogService,
		maxResults: maxResults,
	}
}

// HandleSearchByName 依名稱搜尋調酒
func (h *Handler) HandleSearchByName(c *gin.Context) {
	query := strings.TrimSpace(c.Query("name"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'name' is required",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	results := h.catalog.SearchByName(query)

	common.LogInfo("名稱搜尋完成",
		zap.String("query", query),
		zap.Int("count", len(results)),
	)

	response := SearchResponse{
		Query: query,
		Count: len(results),
	}

	switch len(results) {
	case 0:
		// 無結果也回 200，讓呼叫端自行決定提示文案
	case 1:
		response.Recipe = results[0]
	default:
		shown := results
		if len(shown) > h.maxResults {
			shown = shown[:h.maxResults]
		}
		response.Results = toSummaries(shown)
	}

	c.JSON(http.StatusOK, response)
}

// HandleGetByID 依 ID 取得配方
func (h *Handler) HandleGetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid cocktail id",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	recipe, ok := h.catalog.GetByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": common.ErrCocktailNotFound.Message,
			"code":  common.ErrCocktailNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// HandleRandom 隨機取得一份配方
func (h *Handler) HandleRandom(c *gin.Context) {
	recipe := h.catalog.Random()
	if recipe == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "目錄為空，暫無推薦可用",
			"code":  common.ErrCocktailNotFound.Code,
		})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// toSummaries 將配方轉為列表摘要
func toSummaries(recipes []*common.Recipe) []Summary {
	summaries := make([]Summary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, Summary{
			ID:        r.ID,
			Name:      r.Name,
			Image:     r.Image,
			Category:  r.Category,
			Alcoholic: r.Alcoholic,
		})
	}
	return summaries
}
