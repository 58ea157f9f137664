package api

import (
	"context"
	"net/http"
	"time"

	"franchise-service/internal/common/config"
	"franchise-service/internal/common/logger"
	"franchise-service/internal/crawler"
	"franchise-service/internal/franchise"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readyTimeout = 2 * time.Second

// Pinger is a dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the handlers and dependencies the router serves. Manual may be
// nil.
type Deps struct {
	Franchise *franchise.Handler
	Webhook   *crawler.WebhookHandler
	Manual    *crawler.ManualHandler
	Checks    map[string]Pinger
	Logger    logger.Logger
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logging(deps.Logger), CORS())
	if cfg.Metrics.Enabled {
		r.Use(Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", health(cfg.App))
	r.GET("/ready", ready(deps.Checks))

	deps.Franchise.RegisterRoutes(r.Group("/franchise"))
	deps.Webhook.RegisterRoutes(r.Group("/webhook/crawler"))
	if deps.Manual != nil {
		deps.Manual.RegisterRoutes(r.Group("/test/crawler"))
	}
	return r
}

func health(app config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": app.Name,
			"version": app.Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func ready(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		results := make(map[string]string, len(checks))
		status := http.StatusOK
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		c.JSON(status, gin.H{
			"status": state,
			"checks": results,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
