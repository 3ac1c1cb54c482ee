//go:build fastmath

package core

import "github.com/meko-christian/algo-approx"

// ln10Over20 converts a dB value into the natural exponent of its linear gain.
const ln10Over20 = 0.115129254649702284200899572734218210380

// dbToLinear computes 10^(db/20) using fast approximation.
// Uses the identity: 10^(x/20) = e^(x * ln(10) / 20)
func dbToLinear(db float64) float64 {
	return approx.FastExp(db * ln10Over20)
}
