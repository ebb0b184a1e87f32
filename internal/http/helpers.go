package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"burokasa/internal/core"
)

// clientIP extracts the client IP, considering proxies.
func clientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	if i := strings.IndexByte(ip, ','); i >= 0 {
		ip = strings.TrimSpace(ip[:i])
	}
	return ip
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var knownPeriods = map[core.PeriodTag]bool{
	core.PeriodToday:       true,
	core.PeriodThisWeek:    true,
	core.PeriodThisMonth:   true,
	core.PeriodLast3Months: true,
	core.PeriodThisYear:    true,
}

// parsePeriodQuery reads the period selection from the query string. Without
// a period parameter the dashboard defaults to the current month; custom
// selections carry explicit start and end dates.
func parsePeriodQuery(r *http.Request) (core.PeriodTag, *core.PeriodRange, error) {
	q := r.URL.Query()
	tag := core.PeriodTag(strings.TrimSpace(q.Get("period")))
	start := strings.TrimSpace(q.Get("start"))
	end := strings.TrimSpace(q.Get("end"))

	if tag == "" {
		if start != "" || end != "" {
			tag = core.PeriodCustom
		} else {
			tag = core.PeriodThisMonth
		}
	}

	if tag == core.PeriodCustom {
		if start == "" || end == "" {
			return "", nil, fmt.Errorf("custom period requires start and end dates")
		}
		from, err := time.Parse("2006-01-02", start)
		if err != nil {
			return "", nil, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", start)
		}
		to, err := time.Parse("2006-01-02", end)
		if err != nil {
			return "", nil, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", end)
		}
		return tag, &core.PeriodRange{Start: from, End: to}, nil
	}

	if !knownPeriods[tag] {
		return "", nil, fmt.Errorf("unknown period %q", tag)
	}
	return tag, nil, nil
}
