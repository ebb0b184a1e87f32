package core

import (
	"fmt"
	"sort"
	"time"
)

// MonthlyBucket aggregates income and expense for one calendar month.
// Net always equals Income - Expense; Bucketize recomputes it after the
// final summation pass.
type MonthlyBucket struct {
	MonthKey   string  `json:"month"`
	Income     float64 `json:"income"`
	Expense    float64 `json:"expense"`
	Net        float64 `json:"net"`
	IsForecast bool    `json:"isForecast"`
}

// MonthKeyOf renders the canonical zero-padded "YYYY-MM" key for a date.
func MonthKeyOf(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// Bucketize groups records into calendar-month buckets, one bucket per
// distinct month key, sorted ascending. Records without a usable date are
// skipped; they still count in aggregate totals elsewhere.
func Bucketize(records []MonetaryRecord) []MonthlyBucket {
	byKey := make(map[string]*MonthlyBucket)
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		key := MonthKeyOf(r.Date)
		b, ok := byKey[key]
		if !ok {
			b = &MonthlyBucket{MonthKey: key}
			byKey[key] = b
		}
		if r.IsIncome {
			b.Income += r.Amount
		} else {
			b.Expense += r.Amount
		}
	}

	buckets := make([]MonthlyBucket, 0, len(byKey))
	for _, b := range byKey {
		b.Net = b.Income - b.Expense
		buckets = append(buckets, *b)
	}
	// Zero-padded keys sort chronologically as plain strings.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].MonthKey < buckets[j].MonthKey })
	return buckets
}

// LastN returns the most recent n buckets of an ascending series. The
// reporting screens feed the forecaster the trailing twelve months; that
// truncation is a presentation choice, so it lives here as a helper rather
// than inside Bucketize.
func LastN(buckets []MonthlyBucket, n int) []MonthlyBucket {
	if n <= 0 || len(buckets) <= n {
		return buckets
	}
	return buckets[len(buckets)-n:]
}
