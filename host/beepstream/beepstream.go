// Package beepstream adapts a Processor to the gopxl/beep streaming model
// so the imager can sit in a beep pipeline between a decoder and an encoder
// or speaker.
package beepstream

import (
	"fmt"

	"github.com/cwbudde/imagination"
	"github.com/cwbudde/imagination/dsp/core"
	"github.com/gopxl/beep/v2"
)

// Streamer pulls frames from a source streamer and runs them through a
// Processor in blocks of at most the configured size.
type Streamer struct {
	src  beep.Streamer
	p    *imagination.Processor
	size int

	block   core.Block
	view    core.Block
	drained bool
	err     error
}

var _ beep.Streamer = (*Streamer)(nil)

// New wraps src. p must already be prepared and blockSize must not exceed
// its prepared block size.
func New(src beep.Streamer, p *imagination.Processor, blockSize int) (*Streamer, error) {
	if src == nil || p == nil {
		return nil, fmt.Errorf("beepstream: source and processor must not be nil")
	}

	cfg := p.Config()
	if cfg.Channels == 0 {
		return nil, fmt.Errorf("beepstream: %w", imagination.ErrNotPrepared)
	}

	if blockSize <= 0 || blockSize > cfg.BlockSize {
		return nil, fmt.Errorf("beepstream: block size must be in [1, %d]: %d", cfg.BlockSize, blockSize)
	}

	return &Streamer{
		src:   src,
		p:     p,
		size:  blockSize,
		block: core.NewBlock(cfg.Channels, blockSize),
		view:  core.Block{Channels: make([][]float64, cfg.Channels)},
	}, nil
}

// Stream fills samples with processed frames. A mono processor reads the
// left input channel and writes its output to both sides.
func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	n := 0

	for n < len(samples) && !s.drained {
		chunk := samples[n:min(n+s.size, len(samples))]

		k, ok := s.src.Stream(chunk)
		if !ok {
			s.drained = true
		}

		if k == 0 {
			break
		}

		if err := s.process(chunk[:k]); err != nil {
			s.err = err
			return n, n > 0
		}

		n += k
	}

	if n == 0 && s.drained {
		return 0, false
	}

	return n, true
}

// Err reports a processing error or the source's error.
func (s *Streamer) Err() error {
	if s.err != nil {
		return s.err
	}

	return s.src.Err()
}

func (s *Streamer) process(frames [][2]float64) error {
	block := s.view
	for ch := range block.Channels {
		block.Channels[ch] = s.block.Channels[ch][:len(frames)]
	}

	stereo := block.NumChannels() == 2

	for i, f := range frames {
		block.Channels[0][i] = f[0]
		if stereo {
			block.Channels[1][i] = f[1]
		}
	}

	if err := s.p.ProcessBlock(block); err != nil {
		return fmt.Errorf("beepstream: %w", err)
	}

	for i := range frames {
		frames[i][0] = block.Channels[0][i]
		if stereo {
			frames[i][1] = block.Channels[1][i]
		} else {
			frames[i][1] = frames[i][0]
		}
	}

	return nil
}
