// metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Outcome label values.
const (
	OutcomePass = "pass"
	OutcomeFail = "fail"
)

// reqDuration is a histogram of HTTP request durations in seconds, labeled
// by path, method, and status code.
var reqDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"path", "method", "status"},
)

// ruleChecks counts evaluated validation rules by outcome.
var ruleChecks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "regcheck_rule_checks_total",
		Help: "Validation rules evaluated, by rule and outcome.",
	},
	[]string{"rule", "outcome"},
)

// registrations counts whole registrations by eligibility.
var registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "regcheck_registrations_total",
		Help: "Registrations checked, by outcome.",
	},
	[]string{"outcome"},
)

// RegisterDefault registers the Go runtime and process collectors plus the
// regcheck counters and the HTTP histogram with the default registry.
// Calling it more than once is harmless.
func RegisterDefault(logger *zap.Logger) {
	mustRegister(logger, "Go collector", collectors.NewGoCollector())
	mustRegister(logger, "process collector", collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mustRegister(logger, "HTTP request histogram", reqDuration)
	mustRegister(logger, "rule check counter", ruleChecks)
	mustRegister(logger, "registration counter", registrations)
}

// mustRegister registers c, ignoring AlreadyRegisteredError. Any other
// failure is fatal (or a panic without a logger).
func mustRegister(logger *zap.Logger, name string, c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return
		}
		if logger != nil {
			logger.Fatal("failed to register "+name, zap.Error(err))
		} else {
			panic("metrics: failed to register " + name + ": " + err.Error())
		}
	}
}

// maxPathLabelLength caps the path label to keep cardinality bounded.
const maxPathLabelLength = 256

// HTTPMetrics is a middleware that records request duration into the
// http_request_duration_seconds histogram, labeled with the chi route
// pattern rather than the raw path.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		protoMajor := r.ProtoMajor
		if protoMajor < 1 {
			protoMajor = 1
		}
		ww := middleware.NewWrapResponseWriter(w, protoMajor)

		next.ServeHTTP(ww, r)

		statusCode := ww.Status()
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		if statusCode < 100 || statusCode > 599 {
			statusCode = http.StatusInternalServerError
		}

		reqDuration.WithLabelValues(
			routeLabel(r),
			r.Method,
			strconv.Itoa(statusCode),
		).Observe(time.Since(start).Seconds())
	})
}

// routeLabel prefers the matched chi pattern. Unmatched requests collapse
// into one label so scanners cannot grow the series count.
func routeLabel(r *http.Request) string {
	path := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			path = pattern
		} else {
			path = "unmatched"
		}
	}
	if len(path) > maxPathLabelLength {
		path = truncateUTF8(path, maxPathLabelLength-3) + "..."
	}
	return path
}

// Handler returns an http.Handler that exposes the Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// WriteTextfile writes everything in the default registry to path in the
// node_exporter textfile collector format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// truncateUTF8 truncates s to at most maxBytes bytes on a rune boundary.
func truncateUTF8(s string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}
