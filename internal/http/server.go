// Package http exposes the reporting engine and the record collections over
// a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"

	applog "burokasa/internal/log"
	"burokasa/internal/middleware/trace"
	"burokasa/internal/services"
)

type Server struct {
	http.Server
	reports     *services.ReportService
	rateLimiter *rateLimiter
	tracer      *trace.Middleware
	logger      *applog.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, reports *services.ReportService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		reports:     reports,
		rateLimiter: newRateLimiter(),
		tracer:      trace.NewMiddleware(clientIP),
		logger:      applog.New(applog.Config{Component: applog.ComponentHTTP}),
	}
	s.Handler = s.tracer.Middleware(applog.Middleware(s.logger)(mux))

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/api/trend", s.withSecurityHeaders(s.handleTrend))
	mux.HandleFunc("/api/hakedis", s.withSecurityHeaders(s.handleHakedis))
	mux.HandleFunc("/api/records/", s.withSecurityHeaders(s.handleRecords))

	return s
}

// withSecurityHeaders adds security headers and rate limiting to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Rate limit writes; reads are served from the report cache anyway.
		if (r.Method == http.MethodPost || r.Method == http.MethodDelete) && !s.rateLimiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
