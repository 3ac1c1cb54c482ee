package imagination

import (
	"errors"
	"fmt"

	"github.com/cwbudde/imagination/dsp/core"
	"github.com/cwbudde/imagination/dsp/effects/spatial"
	"github.com/cwbudde/imagination/dsp/gain"
	"github.com/cwbudde/imagination/dsp/mix"
	"github.com/cwbudde/imagination/handoff"
	"github.com/cwbudde/imagination/param"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotPrepared is returned by ProcessBlock before a successful Prepare.
	ErrNotPrepared = errors.New("imagination: processor not prepared")
	// ErrChannelLayout is returned for blocks whose channel count differs
	// from the prepared one, or for unsupported layouts.
	ErrChannelLayout = errors.New("imagination: unsupported channel layout")
	// ErrBlockSize is returned for blocks longer than the prepared maximum.
	ErrBlockSize = errors.New("imagination: block exceeds prepared size")
)

// Option configures a Processor.
type Option func(*Processor) error

// WithStore makes the processor read its parameters from s. Several
// processors may share one store.
func WithStore(s *param.Store) Option {
	return func(p *Processor) error {
		if s == nil {
			return fmt.Errorf("imagination: store must not be nil")
		}

		p.store = s

		return nil
	}
}

// WithLogger sets the entry used for lifecycle logging. The processing path
// never logs.
func WithLogger(entry *logrus.Entry) Option {
	return func(p *Processor) error {
		if entry == nil {
			return fmt.Errorf("imagination: logger must not be nil")
		}

		p.log = entry

		return nil
	}
}

// Processor is the stereo imaging effect.
//
// Prepare and ProcessBlock must be called from the same goroutine. The
// parameter store and the snapshot channel are the only state shared with
// other goroutines.
type Processor struct {
	store *param.Store
	log   *logrus.Entry

	cfg      core.ProcessorConfig
	prepared bool

	input   *gain.Stage
	output  *gain.Stage
	mixer   *mix.DryWetMixer
	imager  *spatial.StereoImager
	exciter *spatial.Exciter

	snapshots *handoff.Channel
	params    param.Snapshot
}

// New returns an unprepared processor with a fresh parameter store unless
// WithStore is given.
func New(opts ...Option) (*Processor, error) {
	imager, err := spatial.NewStereoImager()
	if err != nil {
		return nil, fmt.Errorf("imagination: %w", err)
	}

	p := &Processor{
		log:       logrus.NewEntry(logrus.StandardLogger()),
		input:     gain.NewStage(),
		output:    gain.NewStage(),
		mixer:     mix.NewDryWetMixer(),
		imager:    imager,
		exciter:   spatial.NewExciter(0),
		snapshots: handoff.NewChannel(0),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.store == nil {
		p.store = param.NewStore()
	}

	p.log = p.log.WithField("component", "processor")

	return p, nil
}

// Prepare sizes internal buffers for blocks of up to maxBlockSize frames
// with the given channel count (1 or 2). It must not run concurrently with
// ProcessBlock or with readers of Snapshots.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, channels int) error {
	cfg := core.ProcessorConfig{
		SampleRate: sampleRate,
		BlockSize:  maxBlockSize,
		Channels:   channels,
	}

	if err := cfg.Validate(); err != nil {
		p.prepared = false

		if channels != 1 && channels != 2 {
			return fmt.Errorf("%w: %w", ErrChannelLayout, err)
		}

		return fmt.Errorf("imagination: prepare: %w", err)
	}

	if err := p.mixer.Prepare(channels, maxBlockSize); err != nil {
		p.prepared = false
		return fmt.Errorf("imagination: prepare: %w", err)
	}

	p.snapshots.Prepare(maxBlockSize)
	p.cfg = cfg
	p.prepared = true
	p.applyParams(p.store.Snapshot())

	p.log.WithFields(logrus.Fields{
		"sample_rate": sampleRate,
		"block_size":  maxBlockSize,
		"channels":    channels,
	}).Info("processor prepared")

	return nil
}

// ProcessBlock transforms block in place and publishes the result.
//
// It fails only when a precondition is violated: Prepare has not succeeded,
// the channel count differs from the prepared one, channels are ragged, or
// the block is longer than the prepared maximum. The block is left
// untouched in that case.
func (p *Processor) ProcessBlock(block core.Block) error {
	if !p.prepared {
		return ErrNotPrepared
	}

	if block.NumChannels() != p.cfg.Channels {
		return fmt.Errorf("%w: got %d channels, prepared for %d",
			ErrChannelLayout, block.NumChannels(), p.cfg.Channels)
	}

	if err := block.Validate(); err != nil {
		return fmt.Errorf("imagination: %w", err)
	}

	if n := block.NumSamples(); n > p.cfg.BlockSize {
		return fmt.Errorf("%w: %d > %d", ErrBlockSize, n, p.cfg.BlockSize)
	}

	p.applyParams(p.store.Snapshot())

	p.input.Process(block)

	// The dry copy and the blend are taken back to back, before the
	// imaging stage.
	p.mixer.PushDrySamples(block)
	p.mixer.MixWetSamples(block)

	left := block.Channels[0]

	var right []float64

	if block.NumChannels() == 2 {
		right = block.Channels[1]
		if err := p.imager.ProcessStereoInPlace(left, right); err != nil {
			return fmt.Errorf("imagination: %w", err)
		}
	}

	for _, ch := range block.Channels {
		p.exciter.ProcessInPlace(ch)
	}

	p.output.Process(block)
	p.snapshots.Publish(left, right)

	return nil
}

// Snapshots returns the channel processed blocks are published on.
func (p *Processor) Snapshots() *handoff.Channel { return p.snapshots }

// Store returns the parameter store the processor reads from.
func (p *Processor) Store() *param.Store { return p.store }

// Params returns the parameter values applied to the most recent block.
func (p *Processor) Params() param.Snapshot { return p.params }

// Config returns the prepared configuration.
func (p *Processor) Config() core.ProcessorConfig { return p.cfg }

// Reset drops any captured dry samples. Parameters are unaffected.
func (p *Processor) Reset() {
	p.mixer.Reset()
}

// TailLengthSeconds reports the processing tail. The chain is memoryless.
func (p *Processor) TailLengthSeconds() float64 { return 0 }

func (p *Processor) applyParams(s param.Snapshot) {
	s = s.Clamp()

	p.input.SetGainDecibels(s.InputGainDB)
	p.output.SetGainDecibels(s.OutputGainDB)
	p.mixer.SetWetMixProportion(s.Width * 0.01)
	p.imager.SetWidth(s.Width)
	p.imager.SetBalance(s.Balance)
	p.imager.SetMidSide(s.MidSide)
	p.imager.SetCrossfeed(s.Crossfeed)
	p.exciter.SetAmount(s.ExciterEnhancer)

	p.params = s
}
