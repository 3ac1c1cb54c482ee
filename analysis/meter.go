package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/imagination/handoff"
	"github.com/sirupsen/logrus"
)

// DefaultMeterRate is the tick rate of a Meter in Hz.
const DefaultMeterRate = 30.0

// Source yields the latest processed stereo block and whether it is new.
// *handoff.Channel implements it.
type Source interface {
	Latest() (handoff.Snapshot, bool)
}

// MeterOption mutates meter construction parameters.
type MeterOption func(*Meter) error

// WithRate sets the tick rate in Hz.
func WithRate(hz float64) MeterOption {
	return func(m *Meter) error {
		if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("meter: rate must be > 0 and finite: %f", hz)
		}

		m.rate = hz

		return nil
	}
}

// WithLogger sets the entry the meter logs through.
func WithLogger(entry *logrus.Entry) MeterOption {
	return func(m *Meter) error {
		if entry == nil {
			return fmt.Errorf("meter: logger must not be nil")
		}

		m.log = entry

		return nil
	}
}

// WithSpectrum feeds fresh snapshots to s.
func WithSpectrum(s *SpectrumAnalyzer) MeterOption {
	return func(m *Meter) error {
		m.spectrum = s
		return nil
	}
}

// WithScope feeds fresh snapshots to s.
func WithScope(s *Scope) MeterOption {
	return func(m *Meter) error {
		m.scope = s
		return nil
	}
}

// WithAnalyzer replaces the meter's correlation analyzer.
func WithAnalyzer(a *CorrelationAnalyzer) MeterOption {
	return func(m *Meter) error {
		if a == nil {
			return fmt.Errorf("meter: analyzer must not be nil")
		}

		m.analyzer = a

		return nil
	}
}

// Meter polls a Source at a fixed rate, forwards fresh snapshots to its
// analyzers and ticks the correlation analyzer. The tick rate is unrelated
// to the audio block rate: a tick without new data recomputes the last
// snapshot.
type Meter struct {
	source   Source
	rate     float64
	log      *logrus.Entry
	analyzer *CorrelationAnalyzer
	spectrum *SpectrumAnalyzer
	scope    *Scope

	ticks uint64
	fresh uint64
}

// NewMeter returns a meter reading from source.
func NewMeter(source Source, opts ...MeterOption) (*Meter, error) {
	if source == nil {
		return nil, fmt.Errorf("meter: source must not be nil")
	}

	m := &Meter{
		source:   source,
		rate:     DefaultMeterRate,
		log:      logrus.NewEntry(logrus.StandardLogger()),
		analyzer: NewCorrelationAnalyzer(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	m.log = m.log.WithField("component", "meter")

	return m, nil
}

// Analyzer returns the correlation analyzer the meter drives.
func (m *Meter) Analyzer() *CorrelationAnalyzer { return m.analyzer }

// Rate returns the tick rate in Hz.
func (m *Meter) Rate() float64 { return m.rate }

// Step performs one tick synchronously and reports whether a correlation
// reading was recorded.
func (m *Meter) Step() bool {
	m.ticks++

	if snap, ok := m.source.Latest(); ok {
		m.fresh++
		m.analyzer.SetAudioData(snap.Left, snap.Right)

		if m.spectrum != nil {
			if err := m.spectrum.Update(snap.Left, snap.Right); err != nil {
				m.log.WithError(err).Warn("spectrum update failed")
			}
		}

		if m.scope != nil {
			m.scope.Push(snap.Left, snap.Right)
		}
	}

	recorded := m.analyzer.Tick()

	m.log.WithFields(logrus.Fields{
		"tick":        m.ticks,
		"correlation": m.analyzer.Correlation(),
		"state":       m.analyzer.State().String(),
	}).Trace("meter tick")

	return recorded
}

// Run ticks until ctx is done. It returns nil on cancellation.
func (m *Meter) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / m.rate)
	ticker := time.NewTicker(interval)

	defer ticker.Stop()

	m.log.WithField("rate_hz", m.rate).Debug("meter started")

	for {
		select {
		case <-ctx.Done():
			m.log.WithFields(logrus.Fields{
				"ticks": m.ticks,
				"fresh": m.fresh,
			}).Debug("meter stopped")

			return nil
		case <-ticker.C:
			m.Step()
		}
	}
}
