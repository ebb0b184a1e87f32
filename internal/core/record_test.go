package core

import (
	"testing"
	"time"
)

func TestNormalizeCaseFile(t *testing.T) {
	tests := []struct {
		name       string
		raw        RawRecord
		wantAmount float64
		wantDate   time.Time
		wantProbs  int
	}{
		{
			name:       "tahsilat wins over fallback",
			raw:        RawRecord{"tahsilat": 1500.0, "tahsil_edilen": 999.0, "tahsilat_tarihi": "2024-03-05"},
			wantAmount: 1500,
			wantDate:   date(2024, 3, 5),
		},
		{
			name:       "falls back to tahsil_edilen",
			raw:        RawRecord{"tahsil_edilen": 750.0, "created_at": "2024-01-02"},
			wantAmount: 750,
			wantDate:   date(2024, 1, 2),
		},
		{
			name:       "string amount with decimal comma",
			raw:        RawRecord{"tahsilat": "1250,50", "tahsilat_tarihi": "2024-03-05"},
			wantAmount: 1250.50,
			wantDate:   date(2024, 3, 5),
		},
		{
			name:       "missing amount keeps record at zero",
			raw:        RawRecord{"tahsilat_tarihi": "2024-03-05"},
			wantAmount: 0,
			wantDate:   date(2024, 3, 5),
		},
		{
			name:       "non-numeric amount coerces to zero with diagnostic",
			raw:        RawRecord{"tahsilat": "abc", "tahsilat_tarihi": "2024-03-05"},
			wantAmount: 0,
			wantDate:   date(2024, 3, 5),
			wantProbs:  1,
		},
		{
			name:       "negative amount coerces to zero with diagnostic",
			raw:        RawRecord{"tahsilat": -40.0, "tahsilat_tarihi": "2024-03-05"},
			wantAmount: 0,
			wantDate:   date(2024, 3, 5),
			wantProbs:  1,
		},
		{
			name:       "malformed date excludes from buckets but keeps record",
			raw:        RawRecord{"tahsilat": 100.0, "tahsilat_tarihi": "not-a-date"},
			wantAmount: 100,
			wantProbs:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, probs, ok := Normalize(KindCaseFile, tt.raw)
			if !ok {
				t.Fatal("case file records are counted unconditionally")
			}
			if rec.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", rec.Amount, tt.wantAmount)
			}
			if !rec.Date.Equal(tt.wantDate) {
				t.Errorf("date = %v, want %v", rec.Date, tt.wantDate)
			}
			if !rec.IsIncome {
				t.Error("case file collection must be income")
			}
			if len(probs) != tt.wantProbs {
				t.Errorf("problems = %d, want %d (%v)", len(probs), tt.wantProbs, probs)
			}
		})
	}
}

func TestNormalizeInstitutionFile(t *testing.T) {
	tests := []struct {
		name       string
		raw        RawRecord
		wantOK     bool
		wantAmount float64
	}{
		{
			name:       "paid via odendi flag, explicit net_hakedis",
			raw:        RawRecord{"odendi": true, "net_hakedis": 5000.0, "odenenTarih": "2024-02-01"},
			wantOK:     true,
			wantAmount: 5000,
		},
		{
			name:       "paid via legacy odenmeDurumu string",
			raw:        RawRecord{"odenmeDurumu": "Ödendi", "net_hakedis": 3200.0, "odeme_tarihi": "2024-02-01"},
			wantOK:     true,
			wantAmount: 3200,
		},
		{
			name:   "unpaid file produces no record",
			raw:    RawRecord{"odendi": false, "net_hakedis": 5000.0},
			wantOK: false,
		},
		{
			name:   "other odenmeDurumu values do not count as paid",
			raw:    RawRecord{"odenmeDurumu": "Bekliyor", "net_hakedis": 5000.0},
			wantOK: false,
		},
		{
			name:       "share derived from collected amount and rate",
			raw:        RawRecord{"odendi": true, "tahsil_tutar": 50000.0, "vekalet_orani": 10.0, "created_at": "2024-02-01"},
			wantOK:     true,
			wantAmount: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, ok := Normalize(KindInstitutionFile, tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if rec.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", rec.Amount, tt.wantAmount)
			}
		})
	}
}

func TestNormalizeExpenses(t *testing.T) {
	for _, kind := range []SourceKind{KindOfficeExpense, KindInstitutionExpense, KindCaseExpense} {
		t.Run(string(kind), func(t *testing.T) {
			rec, probs, ok := Normalize(kind, RawRecord{"tutar": 420.0, "tarih": "2024-06-01"})
			if !ok {
				t.Fatal("expenses are counted unconditionally")
			}
			if rec.IsIncome {
				t.Error("expense record must not be income")
			}
			if rec.Amount != 420 {
				t.Errorf("amount = %v, want 420", rec.Amount)
			}
			if len(probs) != 0 {
				t.Errorf("unexpected problems: %v", probs)
			}
		})
	}
}

func TestNormalizeUnknownKind(t *testing.T) {
	_, probs, ok := Normalize(SourceKind("ledger"), RawRecord{"tutar": 1.0})
	if ok {
		t.Error("unknown kind must not produce a record")
	}
	if len(probs) != 1 {
		t.Errorf("problems = %d, want 1", len(probs))
	}
}

func TestNormalizeAllCollectsProblems(t *testing.T) {
	raws := []RawRecord{
		{"tutar": 10.0, "tarih": "2024-01-01"},
		{"tutar": "oops", "tarih": "bad"},
	}
	records, probs := NormalizeAll(KindOfficeExpense, raws)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (malformed rows are kept at zero)", len(records))
	}
	if len(probs) != 2 {
		t.Errorf("problems = %d, want 2 (amount and date)", len(probs))
	}
}
