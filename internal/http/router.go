// Package httpapi builds Gin engines with the error translator and the
// cross-origin hook already installed.
//
// New registers, in order:
//  1. CORS hook: Access-Control-Allow-Origin/Methods "*" on every response
//  2. OpenTelemetry tracing (optional)
//  3. RequestID: generate/propagate correlation id
//  4. Logger: structured access log bound to the application name
//  5. Metrics (optional)
//  6. Error translator: renders the last recorded error as JSON
//  7. Recovery: panics become internal server error faults
//
// and routes unmatched paths and methods to the translator as not-found and
// method-not-allowed faults. Callers add their own routes to the returned
// engine.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-api-errors/internal/http/fault"
	"github.com/tbourn/go-api-errors/internal/http/handlers"
	"github.com/tbourn/go-api-errors/internal/http/middleware"
)

type options struct {
	tracing bool
	metrics bool
	logger  *zerolog.Logger
}

// Option customizes New.
type Option func(*options)

// WithTracing instruments every request with otelgin, using the application
// name as the service name. The global tracer provider is used, see
// observability.SetupOTel.
func WithTracing() Option {
	return func(o *options) { o.tracing = true }
}

// WithMetrics records Prometheus request metrics. Exposing them is left to
// the caller, e.g. r.GET("/metrics", gin.WrapH(promhttp.Handler())).
func WithMetrics() Option {
	return func(o *options) { o.metrics = true }
}

// WithLogger sets the parent logger for the access log and the error
// translator. Defaults to the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// New returns an engine named name with every error handler and the CORS
// hook registered.
func New(name string, opts ...Option) *gin.Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	base := log.Logger
	if o.logger != nil {
		base = *o.logger
	}
	base = base.With().Str("app", name).Logger()

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.CORS())
	if o.tracing {
		r.Use(otelgin.Middleware(name))
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(base))
	if o.metrics {
		r.Use(middleware.Metrics())
	}
	r.Use(handlers.Errors())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		handlers.Abort(c, fault.RouteNotFound(c.Request.URL.Path))
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Abort(c, fault.NewMethodNotAllowed(c.Request.Method, c.Request.URL.Path))
	})

	return r
}
