// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/turbine-invest/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinRelative checks if two values agree to a relative tolerance, falling
// back to an absolute comparison near zero.
func WithinRelative(val1, val2, relTolerance float64) bool {
	scale := math.Max(math.Abs(val1), math.Abs(val2))
	if scale < 1 {
		return math.Abs(val1-val2) <= relTolerance
	}
	return math.Abs(val1-val2)/scale <= relTolerance
}

// FloorDiv returns floor(numerator/denominator) clamped to the range
// [minimum, math.MaxInt32]. A zero denominator or NaN quotient yields minimum.
func FloorDiv(numerator, denominator float64, minimum int) int {
	if denominator == 0 {
		return minimum
	}
	q := math.Floor(numerator / denominator)
	switch {
	case math.IsNaN(q) || q < float64(minimum):
		return minimum
	case q >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(q)
}
