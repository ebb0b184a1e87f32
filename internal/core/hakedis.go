package core

// Flat tax rates applied to the gross fee share. Both are 20% in the current
// regulation snapshot, which makes VAT and withholding cancel out; the
// breakdown is still reported line by line.
const (
	VATRate         = 0.20
	WithholdingRate = 0.20
)

// HakedisCalculation is the gross/VAT/withholding/net breakdown of an
// institutional fee share.
type HakedisCalculation struct {
	BaseAmount  float64 `json:"baseAmount"`
	RatePercent float64 `json:"ratePercent"`
	Gross       float64 `json:"gross"`
	VAT         float64 `json:"vat"`
	Withholding float64 `json:"withholding"`
	Net         float64 `json:"net"`
}

// CalculateHakedis computes the entitled fee share from a collected amount
// and a power-of-attorney percentage. It neither clamps the rate nor rounds:
// bad input stays traceable and rounding is a presentation concern.
func CalculateHakedis(baseAmount, ratePercent float64) HakedisCalculation {
	gross := baseAmount * ratePercent / 100
	vat := gross * VATRate
	withholding := gross * WithholdingRate
	return HakedisCalculation{
		BaseAmount:  baseAmount,
		RatePercent: ratePercent,
		Gross:       gross,
		VAT:         vat,
		Withholding: withholding,
		Net:         gross + vat - withholding,
	}
}
