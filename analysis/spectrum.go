package analysis

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/imagination/dsp/core"
	"github.com/cwbudde/imagination/dsp/window"
)

const (
	// SpectrumFloorDB is the lowest level a spectrum bin reports.
	SpectrumFloorDB = -130.0

	defaultSpectrumSmoothing = 0.6
	spectrumEps              = 1e-12
)

// ErrFFTSize is returned for FFT sizes outside 256..8192 or not a power of two.
var ErrFFTSize = errors.New("spectrum: fft size must be a power of two in [256, 8192]")

// SpectrumOption mutates spectrum analyzer construction parameters.
type SpectrumOption func(*spectrumConfig) error

type spectrumConfig struct {
	smoothing float64
	window    window.Type
}

// WithSmoothing sets the exponential smoothing factor in [0, 0.95]. 0 shows
// each frame as-is.
func WithSmoothing(s float64) SpectrumOption {
	return func(cfg *spectrumConfig) error {
		if math.IsNaN(s) || s < 0 || s > 0.95 {
			return fmt.Errorf("spectrum: smoothing must be in [0, 0.95]: %f", s)
		}

		cfg.smoothing = s

		return nil
	}
}

// WithWindow selects the analysis window. The default is Hann.
func WithWindow(t window.Type) SpectrumOption {
	return func(cfg *spectrumConfig) error {
		if _, err := window.ParseType(t.String()); err != nil {
			return fmt.Errorf("spectrum: %w", err)
		}

		cfg.window = t

		return nil
	}
}

// SpectrumAnalyzer keeps a smoothed dBFS magnitude spectrum per channel of
// the most recent fftSize samples. Every Update that completes a frame
// triggers one FFT per channel.
type SpectrumAnalyzer struct {
	mu sync.Mutex

	sampleRate float64
	size       int
	smoothing  float64
	norm       float64

	plan   *algofft.Plan[complex128]
	window []float64

	in, out []complex128
	re, im  []float64
	mag     []float64
	frame   []float64

	channels [2]spectrumChannel
}

type spectrumChannel struct {
	ring   []float64
	write  int
	filled int
	db     []float64
	ready  bool
}

// NewSpectrumAnalyzer returns an analyzer for the given sample rate and FFT
// size.
func NewSpectrumAnalyzer(sampleRate float64, fftSize int, opts ...SpectrumOption) (*SpectrumAnalyzer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if fftSize < 256 || fftSize > 8192 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrFFTSize, fftSize)
	}

	cfg := spectrumConfig{smoothing: defaultSpectrumSmoothing, window: window.TypeHann}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: init fft plan: %w", err)
	}

	coeffs := window.Generate(cfg.window, fftSize, window.WithPeriodic())

	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	bins := fftSize/2 + 1

	s := &SpectrumAnalyzer{
		sampleRate: sampleRate,
		size:       fftSize,
		smoothing:  cfg.smoothing,
		norm:       float64(fftSize) * math.Max(gain, spectrumEps),
		plan:       plan,
		window:     coeffs,
		in:         make([]complex128, fftSize),
		out:        make([]complex128, fftSize),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		mag:        make([]float64, bins),
		frame:      make([]float64, fftSize),
	}

	for i := range s.channels {
		s.channels[i] = spectrumChannel{
			ring: make([]float64, fftSize),
			db:   make([]float64, bins),
		}
		fillFloor(s.channels[i].db)
	}

	return s, nil
}

// Size returns the FFT size.
func (s *SpectrumAnalyzer) Size() int { return s.size }

// Bins returns the number of magnitude bins per channel (size/2 + 1).
func (s *SpectrumAnalyzer) Bins() int { return s.size/2 + 1 }

// BinFrequency returns the centre frequency of bin k in Hz.
func (s *SpectrumAnalyzer) BinFrequency(k int) float64 {
	return float64(k) * s.sampleRate / float64(s.size)
}

// Update appends the samples to each channel's analysis window and, once a
// full window is available, refreshes that channel's spectrum.
func (s *SpectrumAnalyzer) Update(left, right []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, samples := range [2][]float64{left, right} {
		ch := &s.channels[i]
		ch.push(samples)

		if ch.filled < s.size || len(samples) == 0 {
			continue
		}

		if err := s.analyze(ch); err != nil {
			return err
		}
	}

	return nil
}

// Left copies the left channel's dBFS spectrum into dst, growing it as
// needed, and returns it.
func (s *SpectrumAnalyzer) Left(dst []float64) []float64 { return s.read(0, dst) }

// Right is Left for the right channel.
func (s *SpectrumAnalyzer) Right(dst []float64) []float64 { return s.read(1, dst) }

// Ready reports whether both channels have produced at least one frame.
func (s *SpectrumAnalyzer) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.channels[0].ready && s.channels[1].ready
}

// Reset clears the analysis windows and returns every bin to the floor.
func (s *SpectrumAnalyzer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.channels {
		ch := &s.channels[i]
		core.Zero(ch.ring)
		ch.write = 0
		ch.filled = 0
		ch.ready = false
		fillFloor(ch.db)
	}
}

func (s *SpectrumAnalyzer) read(ch int, dst []float64) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst = core.EnsureLen(dst, len(s.channels[ch].db))
	copy(dst, s.channels[ch].db)

	return dst
}

func (s *SpectrumAnalyzer) analyze(ch *spectrumChannel) error {
	n := copy(s.frame, ch.ring[ch.write:])
	copy(s.frame[n:], ch.ring[:ch.write])

	if err := window.ApplyCoefficientsInPlace(s.frame, s.window); err != nil {
		return fmt.Errorf("spectrum: %w", err)
	}

	for i, v := range s.frame {
		s.in[i] = complex(v, 0)
	}

	if err := s.plan.Forward(s.out, s.in); err != nil {
		return fmt.Errorf("spectrum: forward fft: %w", err)
	}

	for k := range s.re {
		s.re[k] = real(s.out[k])
		s.im[k] = imag(s.out[k])
	}

	vecmath.Magnitude(s.mag, s.re, s.im)

	last := len(s.mag) - 1
	for k, m := range s.mag {
		m /= s.norm
		if k > 0 && k < last {
			m *= 2
		}

		db := max(20*math.Log10(math.Max(spectrumEps, m)), SpectrumFloorDB)

		if !ch.ready {
			ch.db[k] = db
			continue
		}

		ch.db[k] = s.smoothing*ch.db[k] + (1-s.smoothing)*db
	}

	ch.ready = true

	return nil
}

func (ch *spectrumChannel) push(samples []float64) {
	size := len(ch.ring)
	if len(samples) >= size {
		copy(ch.ring, samples[len(samples)-size:])
		ch.write = 0
		ch.filled = size

		return
	}

	for _, x := range samples {
		ch.ring[ch.write] = x

		ch.write++
		if ch.write == size {
			ch.write = 0
		}
	}

	ch.filled = min(ch.filled+len(samples), size)
}

func fillFloor(db []float64) {
	for i := range db {
		db[i] = SpectrumFloorDB
	}
}
