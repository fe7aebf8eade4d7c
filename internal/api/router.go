// Package api assembles the HTTP surface of the content feed service.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	infragin "github.com/jonesrussell/north-cloud/content-feed/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/handlers"
	"github.com/jonesrussell/north-cloud/content-feed/internal/telemetry"
)

// Dependencies are what the routes need. Metrics and HealthChecks are optional.
type Dependencies struct {
	Feed         handlers.FeedService
	Metrics      *telemetry.Metrics
	HealthChecks map[string]infragin.HealthChecker
	Logger       infralogger.Logger
	ServiceName  string
	Version      string
	StartTime    time.Time
}

// NewServer creates the HTTP server with every route registered.
func NewServer(cfg *infragin.Config, deps Dependencies) *infragin.Server {
	if cfg.ServiceName == "" {
		cfg.ServiceName = deps.ServiceName
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = deps.Version
	}
	return infragin.NewServer(cfg, deps.Logger, SetupRoutes(deps))
}

// SetupRoutes returns the route registration for NewServer.
func SetupRoutes(deps Dependencies) func(*gin.Engine) {
	return func(router *gin.Engine) {
		if deps.Metrics != nil {
			router.Use(deps.Metrics.GinMiddleware())
			router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
		}

		infragin.RegisterHealthRoutes(router, infragin.HealthOptions{
			ServiceName:    deps.ServiceName,
			ServiceVersion: deps.Version,
			StartTime:      deps.StartTime,
			Checks:         deps.HealthChecks,
		})

		itemHandler := handlers.NewItemHandler(deps.Feed, deps.Logger)
		metadataHandler := handlers.NewMetadataHandler(deps.Feed, deps.Logger)
		widgetHandler := handlers.NewWidgetHandler(deps.Feed, deps.Logger)

		v1 := router.Group("/api/v1")

		items := v1.Group("/items")
		items.GET("", itemHandler.List)
		items.POST("", itemHandler.Create)
		items.GET("/:id", itemHandler.Get)
		items.PUT("/:id", itemHandler.Update)
		items.DELETE("/:id", itemHandler.Delete)
		items.POST("/:id/toggle", itemHandler.Toggle)
		items.POST("/:id/refresh", itemHandler.Refresh)

		v1.POST("/metadata/preview", metadataHandler.Preview)

		// Public storefront feed
		v1.GET("/widget", widgetHandler.Get)
	}
}
