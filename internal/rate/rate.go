// Package rate holds the numeric helpers shared by every monetary
// computation: percent/rate conversion and controlled decimal rounding.
// Internal accumulation stays at full float64 precision; rounding happens
// only when a value is surfaced.
package rate

import "math"

// ToPercent converts a rate in [0,1] to a percentage rounded to 2 decimals.
func ToPercent(r float64) float64 {
	return Round2(r * 100)
}

// ToRate converts a percentage in [0,100] to a rate rounded to 6 decimals.
// ToRate(ToPercent(x)) reproduces x within 1e-4.
func ToRate(p float64) float64 {
	return Round6(p / 100)
}

// Round2 rounds to 2 decimal places, the precision of percent values and
// currency minor units.
func Round2(v float64) float64 {
	return RoundTo(v, 2)
}

// Round6 rounds to 6 decimal places, the precision of rate fractions.
func Round6(v float64) float64 {
	return RoundTo(v, 6)
}

// RoundTo rounds half away from zero at the given number of decimal places.
// Non-finite intermediates collapse to 0 or the float64 extreme so callers
// never observe NaN or Inf.
func RoundTo(v float64, places int) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	if math.IsInf(v, -1) {
		return -math.MaxFloat64
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
