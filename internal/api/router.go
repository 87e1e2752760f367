package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovision/dashboard-go/internal/config"
	"github.com/agrovision/dashboard-go/internal/handler"
	"github.com/agrovision/dashboard-go/internal/middleware"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Dashboard *handler.DashboardHandler
	Supply    *handler.SupplyHandler
	Status    *handler.StatusHandler
}

// SetupRouter 设置路由
//
// ctx bounds background work owned by the router, e.g. the rate limiter sweep.
func SetupRouter(ctx context.Context, cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "AGRO-VISION dashboard API is running",
		})
	})

	limited := middleware.RateLimit(middleware.NewRateLimiter(ctx, cfg.RateLimit, cfg.RateWindow))
	trainGuards := []gin.HandlerFunc{limited}
	if cfg.AuthRequired {
		trainGuards = append([]gin.HandlerFunc{middleware.RequireUser()}, trainGuards...)
	}

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		api.GET("/dashboard", h.Dashboard.GetDashboard)
		api.POST("/predict", limited, h.Dashboard.Predict)
		api.POST("/train", append(trainGuards, h.Dashboard.Train)...)
		api.GET("/weather", h.Dashboard.GetWeather)
		api.GET("/prices", h.Dashboard.GetPrices)
		api.GET("/crops", h.Dashboard.ListCrops)
		api.POST("/supply", limited, h.Supply.Query)

		retrain := api.Group("/retrain")
		{
			retrain.GET("/status", h.Status.GetStatus)
			retrain.GET("/history", h.Status.ListHistory)
		}
	}

	return r
}
