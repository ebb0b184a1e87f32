package core

import (
	"math"
	"time"
)

// minForecastHistory is the smallest number of historical months a trend
// line can reasonably be fitted to. Below it the forecast is empty and the
// caller shows an "insufficient data" state instead.
const minForecastHistory = 3

// Forecast fits an ordinary-least-squares line to the income and expense
// series of the historical buckets, independently, and extrapolates months
// steps past the end of the history. History is consumed positionally:
// bucket i sits at x = i, calendar gaps are not expanded.
//
// Predictions are floored at zero and rounded to whole currency units; the
// net is the difference of the two predictions and is not floored again.
// Month keys continue the calendar from the last historical bucket, wrapping
// year boundaries. Identical input always yields identical output.
func Forecast(history []MonthlyBucket, months int) []MonthlyBucket {
	if len(history) < minForecastHistory || months <= 0 {
		return nil
	}

	n := len(history)
	income := make([]float64, n)
	expense := make([]float64, n)
	for i, b := range history {
		income[i] = b.Income
		expense[i] = b.Expense
	}
	incSlope, incIntercept := olsFit(income)
	expSlope, expIntercept := olsFit(expense)

	last, err := time.Parse("2006-01", history[n-1].MonthKey)
	if err != nil {
		return nil
	}

	points := make([]MonthlyBucket, 0, months)
	for i := 1; i <= months; i++ {
		x := float64(n + i - 1)
		predIncome := math.Round(math.Max(0, incIntercept+incSlope*x))
		predExpense := math.Round(math.Max(0, expIntercept+expSlope*x))
		points = append(points, MonthlyBucket{
			MonthKey:   MonthKeyOf(last.AddDate(0, i, 0)),
			Income:     predIncome,
			Expense:    predExpense,
			Net:        predIncome - predExpense,
			IsForecast: true,
		})
	}
	return points
}

// olsFit computes slope and intercept of the least-squares line through
// (0, ys[0]), (1, ys[1]), ... Callers guarantee len(ys) >= 2, which keeps
// the denominator non-zero.
func olsFit(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
