package main

import (
	"github.com/cwbudde/imagination/analysis"
	"github.com/gopxl/beep/v2"
)

// levelTap passes audio through while feeding every streamed frame into a
// level accumulator.
type levelTap struct {
	s      beep.Streamer
	levels *analysis.Levels
	mono   bool

	left, right []float64
}

func newLevelTap(s beep.Streamer, levels *analysis.Levels, mono bool) *levelTap {
	return &levelTap{s: s, levels: levels, mono: mono}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	if n == 0 {
		return n, ok
	}

	if cap(t.left) < n {
		t.left = make([]float64, n)
		t.right = make([]float64, n)
	}

	left, right := t.left[:n], t.right[:n]
	for i := range n {
		left[i] = samples[i][0]
		right[i] = samples[i][1]
	}

	if t.mono {
		right = nil
	}

	t.levels.Update(left, right)

	return n, ok
}

func (t *levelTap) Err() error { return t.s.Err() }
