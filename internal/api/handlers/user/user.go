package user

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"cocktail-advisor/internal/core/catalog"
	"cocktail-advisor/internal/core/match"
	"cocktail-advisor/internal/core/session"
	userStore "cocktail-advisor/internal/core/user"
	"cocktail-advisor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddIngredientRequest 加入食材請求
type AddIngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

// MessageRequest 自由文字輸入（聊天層轉送）
type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// IngredientsResponse 食材列表響應
type IngredientsResponse struct {
	UserID      int64    `json:"user_id"`
	Ingredients []string `json:"ingredients"`
	Count       int      `json:"count"`
	Limit       int      `json:"limit"`
}

// Handler 使用者食材與配對處理程序
type Handler struct {
	store      *userStore.Store
	catalog    *catalog.Service
	engine     match.Engine
	cache      session.Cache
	states     *session.StateManager
	maxResults int
}

// NewHandler 創建使用者處理程序
func NewHandler(store *userStore.Store, catalogService *catalog.Service, engine match.Engine, cache session.Cache, states *session.StateManager, maxResults int) *Handler {
	return &Handler{
		store:      store,
		catalog:    catalogService,
		engine:     engine,
		cache:      cache,
		states:     states,
		maxResults: maxResults,
	}
}

// userID 解析路徑中的使用者 ID
func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid user id",
			"code":  common.ErrCodeInvalidRequest,
		})
		return 0, false
	}
	return id, true
}

// respondError 將領域錯誤轉為 HTTP 響應
func respondError(c *gin.Context, err error) {
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		c.JSON(customErr.Status, gin.H{
			"error": customErr.Message,
			"code":  customErr.Code,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": common.ErrInternalError.Message,
		"code":  common.ErrInternalError.Code,
	})
}

// ingredientsResponse 組出目前食材列表響應
func (h *Handler) ingredientsResponse(id int64) IngredientsResponse {
	ingredients := h.store.Ingredients(id)
	return IngredientsResponse{
		UserID:      id,
		Ingredients: ingredients,
		Count:       len(ingredients),
		Limit:       h.store.MaxIngredients(),
	}
}

// HandleListIngredients 取得使用者食材列表
func (h *Handler) HandleListIngredients(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.ingredientsResponse(id))
}

// HandleAddIngredient 加入食材
func (h *Handler) HandleAddIngredient(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req AddIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	if err := h.addIngredient(id, req.Name); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.ingredientsResponse(id))
}

// addIngredient 共用的加食材流程（含長度驗證）
func (h *Handler) addIngredient(id int64, name string) error {
	trimmed := strings.TrimSpace(name)
	length := utf8.RuneCountInString(trimmed)
	if length < 2 || length > 50 {
		return common.NewValidationError("食材名稱長度須為 2 到 50 字")
	}
	return h.store.Add(id, trimmed)
}

// HandleRemoveIngredient 移除食材
func (h *Handler) HandleRemoveIngredient(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	name := c.Param("name")
	if err := h.store.Remove(id, name); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.ingredientsResponse(id))
}

// HandleClearIngredients 清空食材
func (h *Handler) HandleClearIngredients(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.store.Clear(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.ingredientsResponse(id))
}

// HandleBeginCustomIngredient 進入等待自訂食材輸入的狀態
// 聊天層按下「輸入自己的食材」後呼叫，下一則自由文字會被視為食材名稱
func (h *Handler) HandleBeginCustomIngredient(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	h.states.Set(id, session.PendingIngredient)
	c.JSON(http.StatusOK, gin.H{
		"state": string(session.PendingIngredient),
	})
}

// HandleMessage 處理聊天層轉送的自由文字
// 僅在使用者處於等待輸入狀態時有意義，否則回 409
func (h *Handler) HandleMessage(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	switch h.states.Take(id) {
	case session.PendingIngredient:
		if err := h.addIngredient(id, req.Text); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, h.ingredientsResponse(id))
	default:
		c.JSON(http.StatusConflict, gin.H{
			"error": "沒有等待中的輸入",
			"code":  common.ErrCodeConflict,
		})
	}
}

// HandleMatch 依使用者目前的食材執行配對
func (h *Handler) HandleMatch(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	ingredients := h.store.Ingredients(id)
	if len(ingredients) == 0 {
		respondError(c, common.ErrEmptyIngredients)
		return
	}

	results, err := h.engine.FindByIngredients(c.Request.Context(), ingredients)
	if err != nil {
		common.LogError("配對失敗",
			zap.Int64("user_id", id),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}

	h.store.IncrementSearchCount(id)

	// 只保留顯示範圍內的結果，點選索引與回傳列表一致
	if len(results) > h.maxResults {
		results = results[:h.maxResults]
	}
	if h.cache != nil {
		h.cache.SetMatches(c.Request.Context(), id, results)
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     id,
		"ingredients": ingredients,
		"count":       len(results),
		"results":     results,
	})
}

// HandleMatchDetail 點選最近一次配對結果中的第 n 筆
func (h *Handler) HandleMatchDetail(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid result index",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	if h.cache == nil {
		respondError(c, common.ErrCacheDisabled)
		return
	}

	results, ok := h.cache.Matches(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "沒有最近的配對結果，請重新搜尋",
			"code":  common.ErrCodeNotFound,
		})
		return
	}
	if index >= len(results) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "結果索引超出範圍",
			"code":  common.ErrCodeNotFound,
		})
		return
	}

	// 附上聊天層可直接顯示的食材文字
	result := results[index]
	c.JSON(http.StatusOK, gin.H{
		"result":           result,
		"ingredients_text": common.FormatIngredients(result.Recipe.Ingredients),
		"missing_text":     common.StringSliceToString(result.MissingIngredients),
	})
}

// HandleNameSearch 名稱搜尋並保留結果供點選
func (h *Handler) HandleNameSearch(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	query := strings.TrimSpace(c.Query("name"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "query parameter 'name' is required",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	results := h.catalog.SearchByName(query)
	if len(results) > h.maxResults {
		results = results[:h.maxResults]
	}
	if h.cache != nil {
		h.cache.SetNameResults(c.Request.Context(), id, results)
	}

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}

	response := gin.H{
		"query":   query,
		"count":   len(results),
		"results": names,
	}
	// 恰好一筆時直接附完整配方，呼叫端可跳過選擇步驟
	if len(results) == 1 {
		response["recipe"] = results[0]
	}

	c.JSON(http.StatusOK, response)
}

// HandleNameSearchDetail 點選最近一次名稱搜尋結果中的第 n 筆
func (h *Handler) HandleNameSearchDetail(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid result index",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	if h.cache == nil {
		respondError(c, common.ErrCacheDisabled)
		return
	}

	results, ok := h.cache.NameResults(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "沒有最近的搜尋結果，請重新搜尋",
			"code":  common.ErrCodeNotFound,
		})
		return
	}
	if index >= len(results) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "結果索引超出範圍",
			"code":  common.ErrCodeNotFound,
		})
		return
	}

	recipe := results[index]
	c.JSON(http.StatusOK, gin.H{
		"recipe":           recipe,
		"ingredients_text": common.FormatIngredients(recipe.Ingredients),
	})
}
