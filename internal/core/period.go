package core

import "time"

// PeriodTag is the symbolic period selector of the reporting screens.
type PeriodTag string

const (
	PeriodToday       PeriodTag = "today"
	PeriodThisWeek    PeriodTag = "thisWeek"
	PeriodThisMonth   PeriodTag = "thisMonth"
	PeriodLast3Months PeriodTag = "last3Months"
	PeriodThisYear    PeriodTag = "thisYear"
	PeriodCustom      PeriodTag = "custom"
)

// PeriodRange is a concrete date interval. End is inclusive through
// 23:59:59.999 of the end day.
type PeriodRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range, end inclusive.
func (p PeriodRange) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Resolve converts a symbolic period into a concrete range relative to now.
// The boolean is false when no filtering applies: either the tag is custom
// without a supplied range, or it is unrecognized. Unknown tags deliberately
// pass everything through rather than failing the computation.
//
// thisWeek starts on Monday and ends at now's day, not the coming Sunday.
// That truncation matches the legacy reports and is kept as observed.
func Resolve(tag PeriodTag, now time.Time, custom *PeriodRange) (PeriodRange, bool) {
	switch tag {
	case PeriodToday:
		return PeriodRange{Start: startOfDay(now), End: endOfDay(now)}, true
	case PeriodThisWeek:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		monday := now.AddDate(0, 0, -daysSinceMonday)
		return PeriodRange{Start: startOfDay(monday), End: endOfDay(now)}, true
	case PeriodThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
		return PeriodRange{Start: first, End: endOfDay(last)}, true
	case PeriodLast3Months:
		first := time.Date(now.Year(), now.Month()-2, 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
		return PeriodRange{Start: first, End: endOfDay(last)}, true
	case PeriodThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
		return PeriodRange{Start: first, End: endOfDay(last)}, true
	case PeriodCustom:
		if custom == nil {
			return PeriodRange{}, false
		}
		start, end := custom.Start, custom.End
		if end.Before(start) {
			start, end = end, start
		}
		return PeriodRange{Start: startOfDay(start), End: endOfDay(end)}, true
	default:
		return PeriodRange{}, false
	}
}

// FilterByPeriod keeps the records dated inside the range. With bounded set
// to false all records pass. Dateless records never match a bounded range;
// they only participate in lifetime totals.
func FilterByPeriod(records []MonetaryRecord, pr PeriodRange, bounded bool) []MonetaryRecord {
	if !bounded {
		return records
	}
	out := make([]MonetaryRecord, 0, len(records))
	for _, r := range records {
		if r.HasDate() && pr.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}
