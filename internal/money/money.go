// Package money normalizes monetary values to the 2-decimal currency unit
// used throughout the engine. All header and line amounts pass through here
// before they are compared or serialized, so a single rounding rule applies
// everywhere.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds v to 2 decimal places using half-up rounding on the decimal
// representation. Rounding the decimal form avoids binary-float drift such as
// 143.04000000000002. NaN and infinities round to 0.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// FromFloat converts v to a 2-decimal amount, coercing NaN and infinities to
// zero. Callers that need exact arithmetic (totals, the CUFE-style amount
// strings) work on the decimal value instead of the float.
func FromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}

// Equal reports whether a and b agree within tolerance.
func Equal(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
