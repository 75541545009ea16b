package handlers

import (
	"net/http"
	"time"

	"abacusisland/internal/logger"
	"abacusisland/internal/metrics"
	"abacusisland/internal/security"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	log     *logger.Logger
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(log *logger.Logger, limiter *security.RateLimiter) *Middleware {
	return &Middleware{log: log, limiter: limiter}
}

// statusRecorder remembers the status written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests and records their latency
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, rec.status, elapsed)
		m.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}

// RateLimit rejects clients that exceed the limiter's budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := security.GetClientIP(r)
		if m.limiter != nil && !m.limiter.Allow(client) {
			m.log.Warn("rate limit exceeded", "client", client, "path", r.URL.Path)
			respondWithError(w, m.log, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}
