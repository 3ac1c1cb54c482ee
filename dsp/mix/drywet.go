package mix

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/imagination/dsp/core"
)

// DryWetMixer captures a dry copy of a block and later blends it back into
// the block by a wet proportion:
//
//	out = dry*(1-p) + wet*p
//
// where wet is whatever the block holds when MixWetSamples is called.
//
// Prepare must be called before use. After Prepare the mixer does not
// allocate unless a block exceeds the prepared size.
// DryWetMixer is real-time safe and not thread-safe.
type DryWetMixer struct {
	wet     float64
	dry     [][]float64
	dryLen  int
	pending bool
}

// NewDryWetMixer returns a mixer with a fully wet proportion.
func NewDryWetMixer() *DryWetMixer {
	return &DryWetMixer{wet: 1}
}

// Prepare allocates the dry store for the given layout.
func (m *DryWetMixer) Prepare(channels, maxBlockSize int) error {
	if channels <= 0 {
		return fmt.Errorf("dry/wet mixer: channels must be > 0: %d", channels)
	}

	if maxBlockSize <= 0 {
		return fmt.Errorf("dry/wet mixer: block size must be > 0: %d", maxBlockSize)
	}

	m.dry = make([][]float64, channels)
	for ch := range m.dry {
		m.dry[ch] = make([]float64, maxBlockSize)
	}

	m.Reset()

	return nil
}

// Reset drops any captured dry samples.
func (m *DryWetMixer) Reset() {
	m.dryLen = 0
	m.pending = false
}

// SetWetMixProportion sets the wet share p, clamped to [0, 1].
func (m *DryWetMixer) SetWetMixProportion(p float64) {
	m.wet = core.Clamp(p, 0, 1)
}

// WetMixProportion returns the current wet share.
func (m *DryWetMixer) WetMixProportion() float64 { return m.wet }

// PushDrySamples copies the current contents of block as the dry signal.
// Channels beyond the prepared count are ignored.
func (m *DryWetMixer) PushDrySamples(block core.Block) {
	n := block.NumSamples()

	for ch := range min(len(m.dry), block.NumChannels()) {
		m.dry[ch] = core.EnsureLen(m.dry[ch], n)
		copy(m.dry[ch], block.Channels[ch])
	}

	m.dryLen = n
	m.pending = true
}

// MixWetSamples blends the captured dry copy into block in place.
// It is a no-op when no dry samples were pushed since the last mix.
func (m *DryWetMixer) MixWetSamples(block core.Block) {
	if !m.pending {
		return
	}

	m.pending = false

	n := min(m.dryLen, block.NumSamples())
	dryGain := 1 - m.wet

	for ch := range min(len(m.dry), block.NumChannels()) {
		wet := block.Channels[ch][:n]
		dry := m.dry[ch][:n]

		vecmath.ScaleBlockInPlace(wet, m.wet)
		vecmath.ScaleBlockInPlace(dry, dryGain)
		vecmath.AddBlockInPlace(wet, dry)
	}
}
