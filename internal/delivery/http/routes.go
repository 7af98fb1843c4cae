package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/supplierlens/backend/config"
)

// SetupRouter creates and configures the Gin router. A nil gatherer leaves
// /metrics unmounted.
func SetupRouter(cfg *config.Config, handler *Handler, logger *slog.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	var limiter *IPRateLimiter
	if cfg.RateLimit.PerIP > 0 {
		limiter = NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		suppliers := v1.Group("/suppliers", RateLimitMiddleware(limiter), TimeoutMiddleware(cfg.Server.RequestTimeout))
		{
			suppliers.POST("/search", handler.SearchSuppliers)
		}
	}

	return router
}
