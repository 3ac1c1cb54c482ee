package param

import "github.com/cwbudde/imagination/dsp/core"

// Snapshot is the set of control values read once per processing call.
type Snapshot struct {
	Width           float64 // percent, 0..100
	Balance         float64 // -1..1
	InputGainDB     float64 // -60..24
	OutputGainDB    float64 // -60..24
	MidSide         float64 // -1..1
	Crossfeed       float64 // 0..1
	ExciterEnhancer float64 // percent, 0..100
	StereoSpread    float64 // percent, 0..100; declared but not consumed by the pipeline
}

// DefaultSnapshot returns the documented defaults.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Width:        50,
		StereoSpread: 50,
	}
}

// Clamp returns s with every field limited to its documented range.
func (s Snapshot) Clamp() Snapshot {
	return Snapshot{
		Width:           clampTo(Width, s.Width),
		Balance:         clampTo(Balance, s.Balance),
		InputGainDB:     clampTo(InputGain, s.InputGainDB),
		OutputGainDB:    clampTo(OutputGain, s.OutputGainDB),
		MidSide:         clampTo(MidSide, s.MidSide),
		Crossfeed:       clampTo(Crossfeed, s.Crossfeed),
		ExciterEnhancer: clampTo(ExciterEnhancer, s.ExciterEnhancer),
		StereoSpread:    clampTo(StereoSpread, s.StereoSpread),
	}
}

func clampTo(id ID, v float64) float64 {
	spec := layout[id]
	return core.Clamp(v, spec.Min, spec.Max)
}
