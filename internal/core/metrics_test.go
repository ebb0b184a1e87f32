package core

import "testing"

func TestComputeMetrics(t *testing.T) {
	records := []MonetaryRecord{
		{Amount: 1000, IsIncome: true, IsPaid: true},
		{Amount: 3000, IsIncome: true, IsPaid: true},
		{Amount: 0, IsIncome: true, IsPaid: true}, // no fee collected yet, still counts
		{Amount: 400},
		{Amount: 600},
	}

	m := ComputeMetrics(records, 8000)
	if m.TotalIncome != 4000 {
		t.Errorf("total income = %v, want 4000", m.TotalIncome)
	}
	if m.TotalExpense != 1000 {
		t.Errorf("total expense = %v, want 1000", m.TotalExpense)
	}
	if m.NetProfit != 3000 {
		t.Errorf("net profit = %v, want 3000", m.NetProfit)
	}
	// Zero-amount income records must dilute the average, not vanish.
	if want := 4000.0 / 3; m.AvgIncomePerRecord != want {
		t.Errorf("avg income = %v, want %v", m.AvgIncomePerRecord, want)
	}
	if m.AvgExpensePerRecord != 500 {
		t.Errorf("avg expense = %v, want 500", m.AvgExpensePerRecord)
	}
	if m.CollectionRate != 50 {
		t.Errorf("collection rate = %v, want 50", m.CollectionRate)
	}
}

func TestComputeMetricsEmptyInput(t *testing.T) {
	m := ComputeMetrics(nil, 0)
	if m != (AggregateMetrics{}) {
		t.Errorf("empty input must yield all zeros, got %+v", m)
	}
}

func TestComputeMetricsZeroFeeOwed(t *testing.T) {
	records := []MonetaryRecord{{Amount: 100, IsIncome: true, IsPaid: true}}
	if m := ComputeMetrics(records, 0); m.CollectionRate != 0 {
		t.Errorf("collection rate with zero fee volume = %v, want 0", m.CollectionRate)
	}
}

func TestComputeMetricsUnpaidIncomeExcludedFromCollected(t *testing.T) {
	records := []MonetaryRecord{
		{Amount: 100, IsIncome: true, IsPaid: true},
		{Amount: 900, IsIncome: true, IsPaid: false},
	}
	if m := ComputeMetrics(records, 1000); m.CollectionRate != 10 {
		t.Errorf("collection rate = %v, want 10 (only paid subset counts)", m.CollectionRate)
	}
}

func TestComputeMetricsRateUnclamped(t *testing.T) {
	records := []MonetaryRecord{{Amount: 1500, IsIncome: true, IsPaid: true}}
	if m := ComputeMetrics(records, 1000); m.CollectionRate != 150 {
		t.Errorf("over-collection rate = %v, want 150 (no clamping)", m.CollectionRate)
	}
}

func TestTotalFeeOwed(t *testing.T) {
	caseFiles := []RawRecord{
		{"avukatlik_ucreti": 10000.0, "tahsilat": 2500.0},
		{"ucret": 5000.0}, // pre-migration field name
		{"muvekkil": "x"}, // no fee agreed yet
	}
	institutionFiles := []RawRecord{
		{"net_hakedis": 4000.0, "odendi": false},                    // unpaid still owed
		{"tahsil_tutar": 50000.0, "vekalet_orani": 10.0},            // derived share
		{"odendi": true},                                            // nothing resolvable
	}

	if got, want := TotalFeeOwed(caseFiles, institutionFiles), 24000.0; got != want {
		t.Errorf("TotalFeeOwed = %v, want %v", got, want)
	}
}
