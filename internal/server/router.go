// Package server assembles the gin engine from already constructed parts.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/handler"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router wires together.
type Deps struct {
	AuthService    service.AuthService
	Store          Pinger
	StoreName      string
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
	Cookie         handler.CookieOptions
}

// NewRouter builds the HTTP surface: /health, /metrics and the /api group.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		logging.GinLogger(d.Logger),
		d.Metrics.GinMiddleware(),
		middleware.CORS(d.AllowedOrigins),
	)

	jwtAuthMW := middleware.JWTAuthMiddleware(d.AuthService, d.Logger)
	authHandler := handler.NewAuthHandler(d.AuthService, d.Cookie, d.Metrics, d.Logger)

	apiGroup := router.Group("/api")
	authHandler.RegisterAuthRoutes(apiGroup, jwtAuthMW)

	router.GET("/health", healthHandler(d.Store, d.StoreName, d.Logger))
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	return router
}

func healthHandler(store Pinger, storeName string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "health check failed", "store", storeName, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "store": storeName})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": storeName})
	}
}
