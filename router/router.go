// router/router.go
package router

import (
	"net/http"

	"github.com/dalemusser/regcheck/api"
	"github.com/dalemusser/regcheck/auth/apikey"
	"github.com/dalemusser/regcheck/config"
	"github.com/dalemusser/regcheck/logging"
	"github.com/dalemusser/regcheck/metrics"
	"github.com/dalemusser/regcheck/pantry/ratelimit"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// New builds the serve command's router:
// - RequestID, RealIP
// - Recoverer (panic → JSON 500)
// - security headers
// - body size limit (MaxRequestBodyBytes)
// - metrics and request logging
// - CORS when enabled
// - JSON NotFound / MethodNotAllowed
// and mounts the API, /health and /metrics. /api routes are additionally
// rate limited per client IP when limiter is non-nil, and require the API
// key when one is configured.
func New(cfg *config.Config, h *api.Handler, limiter *ratelimit.KeyLimiter, logger *zap.Logger) chi.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Recoverer(logger))
	r.Use(securityHeaders)
	r.Use(limitBodySize(cfg.HTTP.MaxRequestBodyBytes))
	r.Use(metrics.HTTPMetrics)
	r.Use(logging.RequestLogger(logger))
	r.Use(corsFromConfig(cfg.CORS))

	r.NotFound(notFound(logger))
	r.MethodNotAllowed(methodNotAllowed(logger))

	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(ratelimit.Middleware(limiter, tooManyRequests))
		}
		r.Use(apikey.Require(cfg.HTTP.APIKey, unauthorized, logger))
		r.Use(requireJSON)
		h.Routes(r)
	})

	return r
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	api.WriteError(w, http.StatusUnauthorized, "unauthorized", "A valid API key is required")
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	api.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests; retry later")
}

func notFound(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info("not_found",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_ip", r.RemoteAddr),
		)
		api.WriteError(w, http.StatusNotFound, "not_found", "The requested resource was not found")
	}
}

func methodNotAllowed(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info("method_not_allowed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_ip", r.RemoteAddr),
		)
		api.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed",
			"The requested HTTP method is not allowed for this resource")
	}
}
