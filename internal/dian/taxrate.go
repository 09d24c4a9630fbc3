package dian

import "github.com/contaflow/facturel/internal/money"

// RateBracket is one legally recognized tax rate with its snapping window.
type RateBracket struct {
	Rate   float64
	Window float64
}

// StandardBrackets are the jurisdiction's standard VAT brackets. A computed
// percentage within Window of a bracket snaps to that bracket's canonical
// rate; anything else is kept as an ad-hoc rate.
var StandardBrackets = []RateBracket{
	{Rate: 19, Window: 0.5},
	{Rate: 8, Window: 0.5},
	{Rate: 5, Window: 0.5},
	{Rate: 0, Window: 0.5},
}

// ClassifyRate maps a taxable base and tax amount to a normalized percentage
// using the standard brackets.
func ClassifyRate(base, tax float64) float64 {
	return ClassifyRateWith(base, tax, StandardBrackets)
}

// ClassifyRateWith snaps tax/base*100 to the nearest bracket. A zero base or
// zero tax always classifies as 0. When no bracket window matches, the raw
// percentage is kept, rounded to 2 decimals.
func ClassifyRateWith(base, tax float64, brackets []RateBracket) float64 {
	if base == 0 || tax == 0 {
		return 0
	}
	raw := tax / base * 100

	for _, b := range brackets {
		if b.Rate == 0 {
			if raw < b.Window {
				return 0
			}
			continue
		}
		if raw >= b.Rate-b.Window && raw <= b.Rate+b.Window {
			return b.Rate
		}
	}
	return money.Round(raw)
}
