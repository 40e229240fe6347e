package api

import (
	"context"
	"time"

	cocktailHandler "cocktail-advisor/internal/api/handlers/cocktail"
	"cocktail-advisor/internal/api/handlers/health"
	statsHandler "cocktail-advisor/internal/api/handlers/stats"
	userHandler "cocktail-advisor/internal/api/handlers/user"
	"cocktail-advisor/internal/api/middleware"
	"cocktail-advisor/internal/core/catalog"
	"cocktail-advisor/internal/core/match"
	"cocktail-advisor/internal/core/remote"
	"cocktail-advisor/internal/core/session"
	userStore "cocktail-advisor/internal/core/user"
	"cocktail-advisor/internal/infrastructure/config"
	"cocktail-advisor/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)，本服務的請求都是小 JSON
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, resultCache session.Cache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.String("match_mode", cfg.Match.Mode),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	// 自動生成請求 ID，需在 Logger 之前
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// POST 去重（防雙擊重送）
	router.Use(middleware.Deduplication(cfg))

	// 全局中間件：設置請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.Duration("timeout", timeoutDuration),
			)
		}
	})

	// 初始化核心服務
	catalogService := catalog.NewService(cfg.Catalog.Path)
	store := userStore.NewStore(cfg.Storage.Path, cfg.User.MaxIngredients)
	states := session.NewStateManager()

	// 依設定選擇配對引擎：呼叫端不需知道背後是本地目錄還是遠端查詢
	var engine match.Engine
	switch cfg.Match.Mode {
	case "federated":
		engine = match.NewFederatedEngine(remote.NewClient(&cfg.Remote), cfg.Remote.RequestDelay)
	default:
		engine = match.NewIndexedEngine(catalogService)
	}

	common.LogInfo("核心服務已初始化",
		zap.Int("recipes", catalogService.Len()),
		zap.String("match_mode", cfg.Match.Mode),
		zap.Bool("cache_enabled", resultCache != nil),
	)

	// 初始化處理程序
	healthHandlerInstance := health.NewHandler(cfg, catalogService)
	cocktailHandlerInstance := cocktailHandler.NewHandler(catalogService, cfg.Match.MaxResults)
	userHandlerInstance := userHandler.NewHandler(store, catalogService, engine, resultCache, states, cfg.Match.MaxResults)
	statsHandlerInstance := statsHandler.NewHandler(catalogService, store, resultCache)

	// 健康檢查路由
	router.GET("/health", healthHandlerInstance.HealthCheck)
	router.GET("/ready", healthHandlerInstance.ReadinessCheck)
	router.GET("/live", healthHandlerInstance.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		// 調酒查詢
		cocktailGroup := api.Group("/cocktails")
		{
			cocktailGroup.GET("", cocktailHandlerInstance.HandleSearchByName)
			cocktailGroup.GET("/random", cocktailHandlerInstance.HandleRandom)
			cocktailGroup.GET("/:id", cocktailHandlerInstance.HandleGetByID)
		}

		// 儀表板統計
		api.GET("/stats", statsHandlerInstance.HandleStats)

		// 使用者食材與配對
		usersGroup := api.Group("/users/:id")
		{
			usersGroup.GET("/ingredients", userHandlerInstance.HandleListIngredients)
			usersGroup.POST("/ingredients", userHandlerInstance.HandleAddIngredient)
			usersGroup.DELETE("/ingredients/:name", userHandlerInstance.HandleRemoveIngredient)
			usersGroup.DELETE("/ingredients", userHandlerInstance.HandleClearIngredients)

			usersGroup.POST("/prompts/ingredient", userHandlerInstance.HandleBeginCustomIngredient)
			usersGroup.POST("/messages", userHandlerInstance.HandleMessage)

			usersGroup.POST("/matches", userHandlerInstance.HandleMatch)
			usersGroup.GET("/matches/:index", userHandlerInstance.HandleMatchDetail)

			usersGroup.GET("/search", userHandlerInstance.HandleNameSearch)
			usersGroup.GET("/search/:index", userHandlerInstance.HandleNameSearchDetail)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
