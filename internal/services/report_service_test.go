package services

import (
	"context"
	"testing"
	"time"

	"burokasa/internal/core"
	"burokasa/internal/storage"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	ctx := context.Background()

	seed := []struct {
		kind core.SourceKind
		raw  core.RawRecord
	}{
		{core.KindCaseFile, core.RawRecord{
			"muvekkil": "A", "avukatlik_ucreti": 10000.0,
			"tahsilat": 4000.0, "tahsilat_tarihi": "2024-01-10",
		}},
		{core.KindCaseFile, core.RawRecord{
			"muvekkil": "B", "avukatlik_ucreti": 6000.0,
			"tahsilat": 2000.0, "tahsilat_tarihi": "2024-02-15",
		}},
		{core.KindInstitutionFile, core.RawRecord{
			"kurum": "SGK", "tahsil_tutar": 50000.0, "vekalet_orani": 10.0,
			"odendi": true, "odenenTarih": "2024-03-01",
		}},
		{core.KindInstitutionFile, core.RawRecord{
			"kurum": "Belediye", "net_hakedis": 4000.0,
			"odendi": false,
		}},
		{core.KindOfficeExpense, core.RawRecord{
			"aciklama": "kira", "tutar": 1500.0, "tarih": "2024-01-05",
		}},
		{core.KindOfficeExpense, core.RawRecord{
			"aciklama": "kira", "tutar": 1500.0, "tarih": "2024-02-05",
		}},
		{core.KindCaseExpense, core.RawRecord{
			"aciklama": "harç", "tutar": 500.0, "tarih": "2024-03-07",
		}},
	}
	for _, s := range seed {
		if _, err := store.Insert(ctx, s.kind, s.raw); err != nil {
			t.Fatalf("seed %s: %v", s.kind, err)
		}
	}
	return store
}

func q1Range() *core.PeriodRange {
	return &core.PeriodRange{Start: mustDate("2024-01-01"), End: mustDate("2024-03-31")}
}

func TestBuildDashboard(t *testing.T) {
	svc := NewReportService(seedStore(t), nil, Options{}, nil)

	report, err := svc.BuildDashboard(context.Background(), core.PeriodCustom, q1Range())
	if err != nil {
		t.Fatalf("BuildDashboard: %v", err)
	}

	// Income: 4000 + 2000 collections + 5000 paid institutional share.
	if report.Metrics.TotalIncome != 11000 {
		t.Errorf("total income = %v, want 11000", report.Metrics.TotalIncome)
	}
	// Expenses: 1500 + 1500 office + 500 case.
	if report.Metrics.TotalExpense != 3500 {
		t.Errorf("total expense = %v, want 3500", report.Metrics.TotalExpense)
	}
	if report.Metrics.NetProfit != 7500 {
		t.Errorf("net profit = %v, want 7500", report.Metrics.NetProfit)
	}
	// Fee volume: 10000 + 6000 agreed fees + 5000 derived + 4000 unpaid share.
	if want := 11000.0 / 25000.0 * 100; report.Metrics.CollectionRate != want {
		t.Errorf("collection rate = %v, want %v", report.Metrics.CollectionRate, want)
	}

	if len(report.Buckets) != 3 {
		t.Fatalf("buckets = %d, want 3 (Jan, Feb, Mar)", len(report.Buckets))
	}
	jan := report.Buckets[0]
	if jan.MonthKey != "2024-01" || jan.Income != 4000 || jan.Expense != 1500 {
		t.Errorf("january bucket = %+v", jan)
	}
	if report.Range == nil {
		t.Error("custom period dashboard must carry its resolved range")
	}
}

func TestBuildDashboardInvalidatedByWrites(t *testing.T) {
	svc := NewReportService(seedStore(t), nil, Options{}, nil)
	ctx := context.Background()

	before, err := svc.BuildDashboard(ctx, core.PeriodCustom, q1Range())
	if err != nil {
		t.Fatalf("BuildDashboard: %v", err)
	}

	id, err := svc.CreateRecord(ctx, core.KindOfficeExpense, core.RawRecord{
		"aciklama": "kırtasiye", "tutar": 250.0, "tarih": "2024-03-20",
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	after, err := svc.BuildDashboard(ctx, core.PeriodCustom, q1Range())
	if err != nil {
		t.Fatalf("BuildDashboard after write: %v", err)
	}
	if after.Metrics.TotalExpense != before.Metrics.TotalExpense+250 {
		t.Errorf("expense after write = %v, want %v", after.Metrics.TotalExpense, before.Metrics.TotalExpense+250)
	}

	if err := svc.DeleteRecord(ctx, core.KindOfficeExpense, id); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	reverted, err := svc.BuildDashboard(ctx, core.PeriodCustom, q1Range())
	if err != nil {
		t.Fatalf("BuildDashboard after delete: %v", err)
	}
	if reverted.Metrics.TotalExpense != before.Metrics.TotalExpense {
		t.Errorf("expense after delete = %v, want %v", reverted.Metrics.TotalExpense, before.Metrics.TotalExpense)
	}
}

func TestBuildTrend(t *testing.T) {
	svc := NewReportService(seedStore(t), nil, Options{ForecastMonths: 2}, nil)

	report, err := svc.BuildTrend(context.Background())
	if err != nil {
		t.Fatalf("BuildTrend: %v", err)
	}
	if len(report.History) != 3 {
		t.Fatalf("history = %d buckets, want 3", len(report.History))
	}
	if len(report.Forecast) != 2 {
		t.Fatalf("forecast = %d points, want 2", len(report.Forecast))
	}
	for _, p := range report.Forecast {
		if !p.IsForecast {
			t.Error("forecast point not flagged")
		}
		if p.Income < 0 || p.Expense < 0 {
			t.Errorf("forecast point %s has negative prediction", p.MonthKey)
		}
	}
	if report.Forecast[0].MonthKey != "2024-04" {
		t.Errorf("first forecast month = %q, want 2024-04", report.Forecast[0].MonthKey)
	}
}

func TestBuildTrendInsufficientHistory(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if _, err := store.Insert(ctx, core.KindOfficeExpense, core.RawRecord{"tutar": 100.0, "tarih": "2024-01-01"}); err != nil {
		t.Fatal(err)
	}

	svc := NewReportService(store, nil, Options{}, nil)
	report, err := svc.BuildTrend(ctx)
	if err != nil {
		t.Fatalf("BuildTrend: %v", err)
	}
	if len(report.Forecast) != 0 {
		t.Errorf("forecast with one month of history = %d points, want empty", len(report.Forecast))
	}
}

func TestHakedisBreakdown(t *testing.T) {
	svc := NewReportService(seedStore(t), nil, Options{}, nil)

	entries, err := svc.HakedisBreakdown(context.Background())
	if err != nil {
		t.Fatalf("HakedisBreakdown: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	var sgk *HakedisEntry
	for i := range entries {
		if entries[i].Institution == "SGK" {
			sgk = &entries[i]
		}
	}
	if sgk == nil {
		t.Fatal("missing SGK entry")
	}
	if !sgk.Paid {
		t.Error("SGK entry must be marked paid")
	}
	if sgk.Calculation.Gross != 5000 || sgk.Calculation.VAT != 1000 ||
		sgk.Calculation.Withholding != 1000 || sgk.Calculation.Net != 5000 {
		t.Errorf("SGK breakdown = %+v", sgk.Calculation)
	}
}
