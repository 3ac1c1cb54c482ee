package analysis

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/imagination/dsp/core"
)

// ChannelLevels summarizes the samples seen on one channel.
type ChannelLevels struct {
	Frames      int
	DC          float64 // mean
	RMS         float64
	RMSDB       float64
	Peak        float64 // max |x|
	PeakDB      float64
	CrestFactor float64 // Peak / RMS, 0 for silence
	CrestDB     float64
}

// Levels accumulates running peak, RMS and DC per channel over every block
// passed to Update. It is safe for concurrent use.
type Levels struct {
	mu       sync.Mutex
	channels [2]levelAccumulator
}

type levelAccumulator struct {
	n     int
	sum   float64
	sumSq float64
	peak  float64
}

// NewLevels returns an empty accumulator.
func NewLevels() *Levels {
	return &Levels{}
}

// Update adds a stereo block. right may be nil for mono input.
func (l *Levels) Update(left, right []float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.channels[0].add(left)
	l.channels[1].add(right)
}

// Left returns the left channel summary.
func (l *Levels) Left() ChannelLevels {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.channels[0].result()
}

// Right returns the right channel summary.
func (l *Levels) Right() ChannelLevels {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.channels[1].result()
}

// Reset clears both channels.
func (l *Levels) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.channels = [2]levelAccumulator{}
}

func (a *levelAccumulator) add(x []float64) {
	if len(x) == 0 {
		return
	}

	a.n += len(x)
	a.sum += vecmath.Sum(x)
	a.sumSq += vecmath.DotProduct(x, x)
	a.peak = math.Max(a.peak, vecmath.MaxAbs(x))
}

func (a *levelAccumulator) result() ChannelLevels {
	if a.n == 0 {
		return ChannelLevels{
			RMSDB:  math.Inf(-1),
			PeakDB: math.Inf(-1),
		}
	}

	nf := float64(a.n)
	rms := math.Sqrt(a.sumSq / nf)

	out := ChannelLevels{
		Frames: a.n,
		DC:     a.sum / nf,
		RMS:    rms,
		RMSDB:  core.LinearToDB(rms),
		Peak:   a.peak,
		PeakDB: core.LinearToDB(a.peak),
	}

	if rms > 0 {
		out.CrestFactor = a.peak / rms
		out.CrestDB = core.LinearToDB(out.CrestFactor)
	}

	return out
}
