package analysis

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/cwbudde/imagination/handoff"
	"github.com/cwbudde/imagination/internal/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logrus.NewEntry(logger)
}

func TestNewMeterValidates(t *testing.T) {
	if _, err := NewMeter(nil); err == nil {
		t.Fatal("expected error for nil source")
	}

	ch := handoff.NewChannel(4)
	if _, err := NewMeter(ch, WithRate(0)); err == nil {
		t.Fatal("expected error for zero rate")
	}

	m, err := NewMeter(ch)
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}

	if m.Rate() != DefaultMeterRate {
		t.Fatalf("Rate() = %v, want %v", m.Rate(), DefaultMeterRate)
	}
}

func TestMeterStepForwardsFreshSnapshots(t *testing.T) {
	ch := handoff.NewChannel(4)
	scope := NewScope(4, 4)

	spectrum, err := NewSpectrumAnalyzer(48000, 256)
	if err != nil {
		t.Fatalf("NewSpectrumAnalyzer() error = %v", err)
	}

	m, err := NewMeter(ch, WithLogger(quietLogger()), WithScope(scope), WithSpectrum(spectrum))
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}

	if m.Step() {
		t.Fatal("Step recorded a reading before any publish")
	}

	ch.Publish([]float64{1, -1, 1, -1}, []float64{-1, 1, -1, 1})

	if !m.Step() {
		t.Fatal("Step did not record after publish")
	}

	// No new data: the stale snapshot is measured again.
	if !m.Step() {
		t.Fatal("Step did not record from the stale snapshot")
	}

	hist := m.Analyzer().History()
	if len(hist) != 2 || hist[0] != -1 || hist[1] != -1 {
		t.Fatalf("History() = %v, want [-1 -1]", hist)
	}

	if scope.Len() != 1 {
		t.Fatalf("scope frames = %d, want 1", scope.Len())
	}
}

func TestMeterRunStopsOnCancel(t *testing.T) {
	ch := handoff.NewChannel(4)
	ch.Publish([]float64{1, 1}, []float64{1, 1})

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	m, err := NewMeter(ch, WithRate(500), WithLogger(logrus.NewEntry(logger)))
	if err != nil {
		t.Fatalf("NewMeter() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- m.Run(ctx) }()

	select {
	case <-m.Analyzer().Redraw():
	case <-time.After(5 * time.Second):
		t.Fatal("meter did not tick")
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	testutil.RequireNearlyEqual(t, "Correlation()", m.Analyzer().Correlation(), 1, 1e-12)

	last := hook.LastEntry()
	if last == nil || last.Message != "meter stopped" {
		t.Fatalf("last log entry = %+v, want meter stopped", last)
	}
}
