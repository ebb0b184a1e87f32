package core

import (
	"math"
	"reflect"
	"testing"
)

func history(keys []string, incomes, expenses []float64) []MonthlyBucket {
	buckets := make([]MonthlyBucket, len(keys))
	for i := range keys {
		buckets[i] = MonthlyBucket{
			MonthKey: keys[i],
			Income:   incomes[i],
			Expense:  expenses[i],
			Net:      incomes[i] - expenses[i],
		}
	}
	return buckets
}

func TestForecastFlatSeries(t *testing.T) {
	h := history(
		[]string{"2024-01", "2024-02", "2024-03"},
		[]float64{1000, 1000, 1000},
		[]float64{400, 400, 400},
	)

	points := Forecast(h, 3)
	if len(points) != 3 {
		t.Fatalf("forecast points = %d, want 3", len(points))
	}
	for i, p := range points {
		if p.Income != 1000 {
			t.Errorf("point %d income = %v, want 1000 (zero slope)", i, p.Income)
		}
		if p.Expense != 400 {
			t.Errorf("point %d expense = %v, want 400", i, p.Expense)
		}
		if p.Net != 600 {
			t.Errorf("point %d net = %v, want 600", i, p.Net)
		}
		if !p.IsForecast {
			t.Errorf("point %d must be flagged as forecast", i)
		}
	}
	if want := []string{"2024-04", "2024-05", "2024-06"}; points[0].MonthKey != want[0] ||
		points[1].MonthKey != want[1] || points[2].MonthKey != want[2] {
		t.Errorf("month keys = %v %v %v, want %v", points[0].MonthKey, points[1].MonthKey, points[2].MonthKey, want)
	}
}

func TestForecastLinearGrowth(t *testing.T) {
	// Income rises by exactly 100 per month; the fitted line must continue it.
	h := history(
		[]string{"2024-01", "2024-02", "2024-03", "2024-04"},
		[]float64{1000, 1100, 1200, 1300},
		[]float64{0, 0, 0, 0},
	)

	points := Forecast(h, 2)
	if points[0].Income != 1400 || points[1].Income != 1500 {
		t.Errorf("predicted income = %v, %v, want 1400, 1500", points[0].Income, points[1].Income)
	}
}

func TestForecastFloorsAtZero(t *testing.T) {
	h := history(
		[]string{"2024-01", "2024-02", "2024-03"},
		[]float64{900, 500, 100},
		[]float64{600, 300, 0},
	)

	for _, p := range Forecast(h, 6) {
		if p.Income < 0 {
			t.Errorf("%s: predicted income %v below zero", p.MonthKey, p.Income)
		}
		if p.Expense < 0 {
			t.Errorf("%s: predicted expense %v below zero", p.MonthKey, p.Expense)
		}
	}
}

func TestForecastNetNotSeparatelyFloored(t *testing.T) {
	// Income collapses, expense grows: net legitimately goes negative even
	// though both predictions are floored.
	h := history(
		[]string{"2024-01", "2024-02", "2024-03"},
		[]float64{300, 200, 100},
		[]float64{100, 200, 300},
	)

	points := Forecast(h, 2)
	if points[1].Net >= 0 {
		t.Errorf("net = %v, want negative (income - expense, unfloored)", points[1].Net)
	}
}

func TestForecastWholeUnitRounding(t *testing.T) {
	h := history(
		[]string{"2024-01", "2024-02", "2024-03"},
		[]float64{100, 101, 103}, // slope 1.5, predictions land off-integer
		[]float64{0, 0, 0},
	)

	for _, p := range Forecast(h, 3) {
		if p.Income != math.Trunc(p.Income) {
			t.Errorf("%s: income %v not rounded to a whole currency unit", p.MonthKey, p.Income)
		}
	}
}

func TestForecastInsufficientHistory(t *testing.T) {
	h := history([]string{"2024-01", "2024-02"}, []float64{100, 200}, []float64{0, 0})
	if points := Forecast(h, 3); len(points) != 0 {
		t.Errorf("forecast with 2 months of history = %d points, want empty", len(points))
	}
	if points := Forecast(nil, 3); len(points) != 0 {
		t.Errorf("forecast with no history = %d points, want empty", len(points))
	}
}

func TestForecastMonthKeysWrapYear(t *testing.T) {
	h := history(
		[]string{"2024-10", "2024-11", "2024-12"},
		[]float64{1, 1, 1},
		[]float64{0, 0, 0},
	)

	points := Forecast(h, 3)
	want := []string{"2025-01", "2025-02", "2025-03"}
	for i, p := range points {
		if p.MonthKey != want[i] {
			t.Errorf("point %d key = %q, want %q", i, p.MonthKey, want[i])
		}
	}
}

func TestForecastDeterministic(t *testing.T) {
	h := history(
		[]string{"2024-01", "2024-02", "2024-03", "2024-04"},
		[]float64{820, 1040, 760, 1310},
		[]float64{200, 340, 150, 400},
	)

	first := Forecast(h, 4)
	second := Forecast(h, 4)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input must yield identical forecast output")
	}
}
