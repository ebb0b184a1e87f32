package core

// AggregateMetrics holds the KPI values of one computation pass. Every field
// is fully recomputed on each invocation; there is no partial update path.
type AggregateMetrics struct {
	TotalIncome         float64 `json:"totalIncome"`
	TotalExpense        float64 `json:"totalExpense"`
	NetProfit           float64 `json:"netProfit"`
	AvgIncomePerRecord  float64 `json:"avgIncomePerRecord"`
	AvgExpensePerRecord float64 `json:"avgExpensePerRecord"`
	CollectionRate      float64 `json:"collectionRate"`
}

// ComputeMetrics derives totals, averages and the collection rate directly
// from normalized records, independent of the monthly buckets, so no value
// is rounded twice. totalFeeOwed is the nominal fee volume across all case
// and institutional files regardless of paid state (see TotalFeeOwed).
//
// Empty inputs and a zero fee volume yield zeros, never a division by zero.
// The rate is not clamped: over-collection (correction entries) legitimately
// pushes it past 100.
func ComputeMetrics(records []MonetaryRecord, totalFeeOwed float64) AggregateMetrics {
	var m AggregateMetrics
	var incomeCount, expenseCount int
	var totalCollected float64

	for _, r := range records {
		if r.IsIncome {
			m.TotalIncome += r.Amount
			incomeCount++
			if r.IsPaid {
				totalCollected += r.Amount
			}
		} else {
			m.TotalExpense += r.Amount
			expenseCount++
		}
	}

	m.NetProfit = m.TotalIncome - m.TotalExpense
	if incomeCount > 0 {
		m.AvgIncomePerRecord = m.TotalIncome / float64(incomeCount)
	}
	if expenseCount > 0 {
		m.AvgExpensePerRecord = m.TotalExpense / float64(expenseCount)
	}
	if totalFeeOwed > 0 {
		m.CollectionRate = totalCollected / totalFeeOwed * 100
	}
	return m
}

// TotalFeeOwed sums the nominal fee of every case file and institutional
// file, paid or not. Case files carry an agreed fee (avukatlik_ucreti, older
// rows: ucret); institutional files owe the gross share, derived from the
// collected amount and rate when net_hakedis was never written back.
func TotalFeeOwed(caseFiles, institutionFiles []RawRecord) float64 {
	var owed float64
	for _, raw := range caseFiles {
		if fee, _, found, parseErr := resolveAmount(raw, schemas[KindCaseFile].feeFields); found && !parseErr {
			owed += fee
		}
	}
	sch := schemas[KindInstitutionFile]
	for _, raw := range institutionFiles {
		fee, _, found, parseErr := resolveAmount(raw, sch.feeFields)
		if !found && sch.deriveFee != nil {
			if derived, ok := sch.deriveFee(raw); ok {
				fee, found, parseErr = derived, true, false
			}
		}
		if found && !parseErr {
			owed += fee
		}
	}
	return owed
}
