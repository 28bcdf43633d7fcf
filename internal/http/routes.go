package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tbourn/go-api-errors/internal/config"
	"github.com/tbourn/go-api-errors/internal/http/handlers"
)

// Options derives the New options implied by cfg.
func Options(cfg config.Config) []Option {
	var opts []Option
	if cfg.OTEL.Enabled {
		opts = append(opts, WithTracing())
	}
	if cfg.MetricsEnabled {
		opts = append(opts, WithMetrics())
	}
	return opts
}

// RegisterRoutes mounts the example server's endpoints:
//
//	GET  /health               liveness
//	GET  /metrics              Prometheus scrape (when metrics are enabled)
//	POST {base}/echo           validated JSON echo
func RegisterRoutes(r *gin.Engine, cfg config.Config) {
	r.GET("/health", handlers.Health(cfg.AppName))
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/echo", handlers.Echo)
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
