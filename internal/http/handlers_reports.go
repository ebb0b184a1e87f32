package http

import (
	"context"
	"net/http"
	"time"

	applog "burokasa/internal/log"
)

// handleDashboard returns the aggregate metrics and monthly buckets for the
// requested period.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tag, custom, err := parsePeriodQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	report, err := s.reports.BuildDashboard(ctx, tag, custom)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Dashboard build failed",
			applog.FieldError, err, applog.FieldPeriod, tag)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleTrend returns the trailing monthly history and the projection.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	report, err := s.reports.BuildTrend(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Trend build failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to build trend")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleHakedis returns the fee-share breakdown of every institutional file.
func (s *Server) handleHakedis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, err := s.reports.HakedisBreakdown(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Fee-share breakdown failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to build fee-share breakdown")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
