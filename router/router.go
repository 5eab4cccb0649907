// router/router.go
package router

import (
	"github.com/dalemusser/intake/config"
	"github.com/dalemusser/intake/logging"
	"github.com/dalemusser/intake/metrics"
	"github.com/dalemusser/intake/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// New creates a chi.Router pre-wired with the standard middleware stack:
// - RequestID
// - RealIP
// - Recoverer (panic → 500)
// - body size limit (MaxRequestBodyBytes)
// - metrics HTTP middleware
// - request logging
// - security headers, compression, CORS (each per config)
// - NotFound / MethodNotAllowed JSON handlers
// It does NOT mount any routes; those remain app-level decisions.
func New(coreCfg *config.CoreConfig, logger *zap.Logger) chi.Router {
	if coreCfg == nil {
		coreCfg = &config.CoreConfig{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Request context & safety
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Recoverer(logger))

	r.Use(middleware.LimitBodySize(coreCfg.MaxRequestBodyBytes))

	if coreCfg.EnableMetrics {
		r.Use(metrics.HTTPMetrics)
	}

	r.Use(logging.RequestLogger(logger))

	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(middleware.CompressFromConfig(coreCfg))

	// CORS sits last so preflights are answered before routing.
	r.Use(middleware.CORSFromConfig(coreCfg))

	r.NotFound(middleware.NotFoundHandler(logger))
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler(logger))

	return r
}
