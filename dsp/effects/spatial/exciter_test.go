package spatial

import (
	"math"
	"testing"

	"github.com/cwbudde/imagination/internal/testutil"
)

func TestExciterZeroIsIdentity(t *testing.T) {
	e := NewExciter(0)

	in := testutil.DeterministicNoise(7, 1, 64)
	buf := append([]float64(nil), in...)
	e.ProcessInPlace(buf)

	testutil.RequireSliceNearlyEqual(t, buf, in, 0)
}

func TestExciterQuadraticTerm(t *testing.T) {
	e := NewExciter(50)

	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.5, 0.625},
		{-0.5, -0.375},
		{1, 1.5},
	}

	for _, tt := range tests {
		if got := e.ProcessSample(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("ProcessSample(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExciterIsUnbounded(t *testing.T) {
	e := NewExciter(100)

	buf := []float64{1, 0.99}
	e.ProcessInPlace(buf)

	if buf[0] != 2 {
		t.Fatalf("buf[0] = %v, want 2", buf[0])
	}

	if buf[1] <= 1 {
		t.Fatalf("buf[1] = %v, expected > 1", buf[1])
	}
}

func TestExciterClampsAmount(t *testing.T) {
	e := NewExciter(400)
	if e.Amount() != 100 {
		t.Fatalf("Amount() = %v, want 100", e.Amount())
	}
}
