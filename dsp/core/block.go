package core

import "fmt"

// Block is a planar audio block: one sample slice per channel.
//
// Channel 0 is left and channel 1 is right. A Block is owned by the caller
// for the duration of one processing call; processors mutate it in place and
// never keep a reference after they return.
type Block struct {
	Channels [][]float64
}

// NewBlock allocates a zeroed block with the given layout.
func NewBlock(channels, samples int) Block {
	if channels < 0 {
		channels = 0
	}

	if samples < 0 {
		samples = 0
	}

	b := Block{Channels: make([][]float64, channels)}
	for ch := range b.Channels {
		b.Channels[ch] = make([]float64, samples)
	}

	return b
}

// NumChannels returns the channel count.
func (b Block) NumChannels() int { return len(b.Channels) }

// NumSamples returns the per-channel length, taken from channel 0.
func (b Block) NumSamples() int {
	if len(b.Channels) == 0 {
		return 0
	}

	return len(b.Channels[0])
}

// Validate reports an error when channels differ in length.
func (b Block) Validate() error {
	n := b.NumSamples()
	for ch, data := range b.Channels {
		if len(data) != n {
			return fmt.Errorf("block: channel %d has %d samples, channel 0 has %d", ch, len(data), n)
		}
	}

	return nil
}

// Slice returns a view of samples [from, to) of every channel.
// The returned block shares memory with b.
func (b Block) Slice(from, to int) Block {
	out := Block{Channels: make([][]float64, len(b.Channels))}
	for ch, data := range b.Channels {
		out.Channels[ch] = data[from:to]
	}

	return out
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
