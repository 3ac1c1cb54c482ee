package spatial

import "github.com/cwbudde/imagination/dsp/core"

const (
	minExciterAmount = 0.0
	maxExciterAmount = 100.0
)

// Exciter adds second-order harmonics with a quadratic term:
//
//	y = x + k*x*x,  k = amount/100
//
// There is no output guard: large amounts on near full-scale input produce
// values outside [-1, 1]. It works on any channel independently.
type Exciter struct {
	amount float64
	k      float64
}

// NewExciter returns an exciter with the given amount in percent.
func NewExciter(percent float64) *Exciter {
	e := &Exciter{}
	e.SetAmount(percent)

	return e
}

// SetAmount sets the amount in percent, clamped to [0, 100].
func (e *Exciter) SetAmount(percent float64) {
	e.amount = core.Clamp(percent, minExciterAmount, maxExciterAmount)
	e.k = e.amount * 0.01
}

// Amount returns the amount in percent.
func (e *Exciter) Amount() float64 { return e.amount }

// ProcessSample excites a single sample.
func (e *Exciter) ProcessSample(x float64) float64 {
	return x + e.k*x*x
}

// ProcessInPlace excites buf in place.
func (e *Exciter) ProcessInPlace(buf []float64) {
	if e.k == 0 {
		return
	}

	for i, x := range buf {
		buf[i] = x + e.k*x*x
	}
}
