package integrate

import (
	"math"
)

// AxisIntegral is ∫_lower^upper x^p dx, or zero for an empty interval.
func AxisIntegral(lower, upper float64, p int) float64 {
	if upper <= lower {
		return 0
	}
	q := float64(p + 1)
	return (math.Pow(upper, q) - math.Pow(lower, q)) / q
}
