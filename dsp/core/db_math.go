//go:build !fastmath

package core

import "math"

// dbToLinear computes 10^(db/20) using standard library math.
func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
