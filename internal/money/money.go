// Package money converts between decimal currency amounts and the scaled integer
// units used everywhere inside the cart engine.
package money

import (
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept in scaled units.
const Places = 2

// ToScaled rounds d half-up to Places digits and returns it as an integer count of
// hundredths.
func ToScaled(d decimal.Decimal) int64 {
	return d.Round(Places).Shift(Places).IntPart()
}

// ToDecimal is the inverse of ToScaled.
func ToDecimal(scaled int64) decimal.Decimal {
	return decimal.New(scaled, -Places)
}

// FromFloat scales a catalog price. NewFromFloat picks the shortest decimal that
// round-trips the float, so 4.35 is treated as 4.35 and not 4.3499999.
func FromFloat(f float64) int64 {
	return ToScaled(decimal.NewFromFloat(f))
}

// ToFloat is for display payloads only.
func ToFloat(scaled int64) float64 {
	f, _ := ToDecimal(scaled).Float64()
	return f
}

// LineTotal multiplies exactly; no rounding is involved.
func LineTotal(quantity int, unitScaled int64) int64 {
	return int64(quantity) * unitScaled
}

// Format renders scaled units with exactly Places digits, e.g. 450 -> "4.50".
func Format(scaled int64) string {
	return ToDecimal(scaled).StringFixed(Places)
}

// Sum adds scaled amounts.
func Sum(values ...int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}
