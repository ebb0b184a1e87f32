// Package core implements the financial rollup engine: it normalizes the
// heterogeneous record collections of the office (case files, institutional
// files, three expense ledgers) into uniform monetary records, buckets them
// into calendar months, derives aggregate metrics and projects near-future
// income and expense.
//
// Everything in this package is pure and synchronous. A computation pass is
// a complete recomputation from raw inputs; malformed individual records
// degrade gracefully instead of failing the pass.
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SourceKind identifies which legacy collection a raw record came from.
type SourceKind string

const (
	KindCaseFile           SourceKind = "case_file"
	KindInstitutionFile    SourceKind = "institution_file"
	KindOfficeExpense      SourceKind = "office_expense"
	KindInstitutionExpense SourceKind = "institution_expense"
	KindCaseExpense        SourceKind = "case_expense"
)

// Kinds lists every source kind in a stable order.
var Kinds = []SourceKind{
	KindCaseFile,
	KindInstitutionFile,
	KindOfficeExpense,
	KindInstitutionExpense,
	KindCaseExpense,
}

// RawRecord is one row of a legacy collection as handed over by the
// persistence layer. Field names follow the original (Turkish) schema and
// vary across migration generations, hence the fallback chains below.
type RawRecord map[string]any

// MonetaryRecord is the uniform shape every computation works on.
// Amount is never negative; a zero Date means the record carries no usable
// date and is excluded from bucketing and forecasting, but not from totals.
type MonetaryRecord struct {
	Amount   float64
	Date     time.Time
	IsIncome bool
	IsPaid   bool
	Kind     SourceKind
}

// HasDate reports whether the record carries a usable calendar date.
func (r MonetaryRecord) HasDate() bool { return !r.Date.IsZero() }

// Problem is a non-fatal diagnostic emitted while normalizing a record.
type Problem struct {
	Kind   SourceKind
	Field  string
	Value  string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s.%s=%q: %s", p.Kind, p.Field, p.Value, p.Reason)
}

// sourceSchema is the versioned field mapping for one collection. Fallback
// chains are tried in order, first present field wins. A nil paid predicate
// means the record is always counted.
type sourceSchema struct {
	amountFields []string
	deriveAmount func(RawRecord) (float64, bool)
	dateFields   []string
	feeFields    []string
	deriveFee    func(RawRecord) (float64, bool)
	isIncome     bool
	paid         func(RawRecord) bool
}

// deriveInstitutionShare computes the entitled fee share from the collected
// amount and the power-of-attorney percentage, used when net_hakedis was
// never written back to the row.
func deriveInstitutionShare(raw RawRecord) (float64, bool) {
	base, okBase := lookupAmount(raw, "tahsil_tutar")
	rate, okRate := lookupAmount(raw, "vekalet_orani")
	if !okBase || !okRate {
		return 0, false
	}
	return CalculateHakedis(base, rate).Net, true
}

func institutionPaid(raw RawRecord) bool {
	if v, ok := raw["odendi"]; ok {
		if b, ok := v.(bool); ok && b {
			return true
		}
	}
	if v, ok := raw["odenmeDurumu"]; ok {
		if s, ok := v.(string); ok && s == "Ödendi" {
			return true
		}
	}
	return false
}

var schemas = map[SourceKind]sourceSchema{
	KindCaseFile: {
		amountFields: []string{"tahsilat", "tahsil_edilen"},
		dateFields:   []string{"tahsilat_tarihi", "created_at"},
		feeFields:    []string{"avukatlik_ucreti", "ucret"},
		isIncome:     true,
	},
	KindInstitutionFile: {
		amountFields: []string{"net_hakedis"},
		deriveAmount: deriveInstitutionShare,
		dateFields:   []string{"odenenTarih", "odeme_tarihi", "created_at"},
		feeFields:    []string{"net_hakedis"},
		deriveFee:    deriveInstitutionShare,
		isIncome:     true,
		paid:         institutionPaid,
	},
	KindOfficeExpense: {
		amountFields: []string{"tutar"},
		dateFields:   []string{"tarih"},
	},
	KindInstitutionExpense: {
		amountFields: []string{"tutar"},
		dateFields:   []string{"tarih"},
	},
	KindCaseExpense: {
		amountFields: []string{"tutar"},
		dateFields:   []string{"tarih"},
	},
}

// Normalize extracts zero or one MonetaryRecord from a raw row. It returns
// false when the row must not be counted at all (unknown kind, or the paid
// precondition of its collection is unmet). Missing amounts coerce to zero
// so that "no fee yet" rows still participate in record counts; malformed
// amounts and dates are reported as Problems and never abort the pass.
func Normalize(kind SourceKind, raw RawRecord) (MonetaryRecord, []Problem, bool) {
	sch, ok := schemas[kind]
	if !ok {
		return MonetaryRecord{}, []Problem{{Kind: kind, Reason: "unknown source kind"}}, false
	}
	if sch.paid != nil && !sch.paid(raw) {
		return MonetaryRecord{}, nil, false
	}

	var problems []Problem
	rec := MonetaryRecord{Kind: kind, IsIncome: sch.isIncome, IsPaid: true}

	amount, field, found, parseErr := resolveAmount(raw, sch.amountFields)
	switch {
	case parseErr:
		problems = append(problems, Problem{
			Kind: kind, Field: field, Value: stringify(raw[field]),
			Reason: "amount not numeric, coerced to 0",
		})
	case !found && sch.deriveAmount != nil:
		if derived, ok := sch.deriveAmount(raw); ok {
			amount = derived
		}
	}
	if amount < 0 {
		problems = append(problems, Problem{
			Kind: kind, Field: field, Value: stringify(raw[field]),
			Reason: "negative amount, coerced to 0",
		})
		amount = 0
	}
	rec.Amount = amount

	date, field, found, parseErr := resolveDate(raw, sch.dateFields)
	if parseErr {
		problems = append(problems, Problem{
			Kind: kind, Field: field, Value: stringify(raw[field]),
			Reason: "unparseable date, record excluded from monthly buckets",
		})
	}
	if found && !parseErr {
		rec.Date = date
	}

	return rec, problems, true
}

// NormalizeAll normalizes a whole collection, collecting diagnostics.
func NormalizeAll(kind SourceKind, raws []RawRecord) ([]MonetaryRecord, []Problem) {
	records := make([]MonetaryRecord, 0, len(raws))
	var problems []Problem
	for _, raw := range raws {
		rec, probs, ok := Normalize(kind, raw)
		problems = append(problems, probs...)
		if ok {
			records = append(records, rec)
		}
	}
	return records, problems
}

// resolveAmount walks the fallback chain and parses the first present field.
// found is true when some field of the chain was present; parseErr is true
// when that field existed but did not parse.
func resolveAmount(raw RawRecord, chain []string) (amount float64, field string, found, parseErr bool) {
	for _, f := range chain {
		v, ok := raw[f]
		if !ok || v == nil {
			continue
		}
		n, ok := toFloat(v)
		if !ok {
			return 0, f, true, true
		}
		return n, f, true, false
	}
	return 0, "", false, false
}

func lookupAmount(raw RawRecord, field string) (float64, bool) {
	v, ok := raw[field]
	if !ok || v == nil {
		return 0, false
	}
	return toFloat(v)
}

func resolveDate(raw RawRecord, chain []string) (date time.Time, field string, found, parseErr bool) {
	for _, f := range chain {
		v, ok := raw[f]
		if !ok || v == nil {
			continue
		}
		t, ok := toTime(v)
		if !ok {
			return time.Time{}, f, true, true
		}
		return t, f, true, false
	}
	return time.Time{}, "", false, false
}

// toFloat accepts the numeric shapes that occur in the legacy data: Go
// numbers, json.Number, and strings with either decimal separator.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// dateLayouts are tried in order against string-valued date fields.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02.01.2006",
}

func toTime(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d, true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
