package main

import "math"

const (
	toneFreq   = 440.0
	toneDetune = 1.003
	toneLevel  = 0.4
)

// testTone is a stereo sine pair, slightly detuned and phase shifted so the
// channels are partly correlated.
type testTone struct {
	sampleRate float64
	pos, total int
}

func newTestTone(sampleRate float64, frames int) *testTone {
	return &testTone{sampleRate: sampleRate, total: frames}
}

func (t *testTone) Stream(samples [][2]float64) (int, bool) {
	if t.pos >= t.total {
		return 0, false
	}

	n := min(len(samples), t.total-t.pos)

	for i := range n {
		x := 2 * math.Pi * float64(t.pos+i) / t.sampleRate
		samples[i][0] = toneLevel * math.Sin(toneFreq*x)
		samples[i][1] = toneLevel * math.Sin(toneFreq*toneDetune*x+math.Pi/4)
	}

	t.pos += n

	return n, true
}

func (t *testTone) Err() error { return nil }
