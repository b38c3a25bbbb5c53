package util

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Ratio calculates the ration that target has in comparison to rangeMin and rangeMax
// Make sure that:
// rangeMin <= target <= rangeMax
// rangeMax - rangeMin != 0
func Ratio(target float64, rangeMin float64, rangeMax float64) float64 {
	return (target - rangeMin) / (rangeMax - rangeMin)
}

// Coerce returns a value that is at least min and at most max, otherwise equal to value
func Coerce[T constraints.Ordered](value T, min T, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// RoundPercent clamps the given percentage to [0..100] and rounds it to the
// closest integer, halves away from zero
func RoundPercent(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	return int(math.Round(Coerce(value, 0, 100)))
}
