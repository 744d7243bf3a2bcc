package util

import "math"

// Round2 rounds to 2 decimal places. The 2dp rounding is part of the API
// contract for every indicator and price field, so it lives in one place.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundHalfEven rounds to the nearest integer with ties to even, the
// convention used for strike increments and rupee amounts.
func RoundHalfEven(v float64) int {
	return int(math.RoundToEven(v))
}

// RoundSlice2 rounds every element to 2 decimal places, returning a new slice.
func RoundSlice2(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = Round2(v)
	}
	return out
}
