package gain

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/imagination/dsp/core"
)

const (
	// MinDecibels is the lowest gain the stage accepts.
	MinDecibels = -60.0
	// MaxDecibels is the highest gain the stage accepts.
	MaxDecibels = 24.0
)

// Stage multiplies every sample of a block by a gain set in decibels.
//
// The zero value is not ready for use; create one with NewStage.
// Stage is real-time safe and not thread-safe.
type Stage struct {
	db     float64
	linear float64
}

// NewStage returns a unity-gain stage.
func NewStage() *Stage {
	return &Stage{linear: 1}
}

// SetGainDecibels sets the gain. Values outside [MinDecibels, MaxDecibels]
// are clamped. The linear factor is recomputed only when db changes.
func (s *Stage) SetGainDecibels(db float64) {
	db = core.Clamp(db, MinDecibels, MaxDecibels)
	if db == s.db {
		return
	}

	s.db = db
	s.linear = core.DBToLinear(db)
}

// GainDecibels returns the current gain in dB.
func (s *Stage) GainDecibels() float64 { return s.db }

// GainLinear returns the cached linear gain factor.
func (s *Stage) GainLinear() float64 { return s.linear }

// Process scales every channel of block in place.
func (s *Stage) Process(block core.Block) {
	if s.linear == 1 {
		return
	}

	for _, ch := range block.Channels {
		vecmath.ScaleBlockInPlace(ch, s.linear)
	}
}

// ProcessSample applies the gain to a single sample.
func (s *Stage) ProcessSample(x float64) float64 {
	return x * s.linear
}
