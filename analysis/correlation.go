package analysis

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/imagination/dsp/core"
)

// maxCorrelationPoints bounds the number of sample pairs a correlation is
// computed from. Longer inputs are read with a stride.
const maxCorrelationPoints = 1000

// PhaseCorrelation returns the normalized cross-correlation at zero lag of
// left and right, in [-1, 1].
//
// For inputs longer than 1000 samples every step-th pair is used, where
// step = len/1000. Empty or mismatched inputs, and inputs where either
// channel has zero energy, return 0.
func PhaseCorrelation(left, right []float64) float64 {
	var c correlator
	return c.compute(left, right)
}

// correlator keeps gather buffers so repeated strided computations do not
// allocate.
type correlator struct {
	l, r []float64
}

func (c *correlator) compute(left, right []float64) float64 {
	n := len(left)
	if n == 0 || n != len(right) {
		return 0
	}

	step := max(n/maxCorrelationPoints, 1)

	l, r := left, right
	if step > 1 {
		l, r = c.gather(left, right, step)
	}

	sumLR := vecmath.DotProduct(l, r)
	sumLL := vecmath.DotProduct(l, l)
	sumRR := vecmath.DotProduct(r, r)

	if sumLL == 0 || sumRR == 0 {
		return 0
	}

	// Rounding in the dot products can land just outside [-1, 1].
	return core.Clamp(sumLR/(math.Sqrt(sumLL)*math.Sqrt(sumRR)), -1, 1)
}

func (c *correlator) gather(left, right []float64, step int) ([]float64, []float64) {
	count := (len(left) + step - 1) / step

	if cap(c.l) < count {
		c.l = make([]float64, count)
		c.r = make([]float64, count)
	}

	l := c.l[:count]
	r := c.r[:count]

	for i, j := 0, 0; i < len(left); i, j = i+step, j+1 {
		l[j] = left[i]
		r[j] = right[i]
	}

	return l, r
}
