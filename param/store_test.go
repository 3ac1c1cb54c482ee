package param

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore()

	want := map[ID]float64{
		Width:           50,
		Balance:         0,
		InputGain:       0,
		OutputGain:      0,
		MidSide:         0,
		Crossfeed:       0,
		ExciterEnhancer: 0,
		StereoSpread:    50,
	}

	for id, v := range want {
		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", id, err)
		}

		if got != v {
			t.Fatalf("Get(%q) = %v, want %v", id, got, v)
		}
	}

	if s.Snapshot() != DefaultSnapshot() {
		t.Fatalf("Snapshot() = %#v, want %#v", s.Snapshot(), DefaultSnapshot())
	}
}

func TestStoreSetClamps(t *testing.T) {
	tests := []struct {
		id   ID
		in   float64
		want float64
	}{
		{Width, 150, 100},
		{Width, -5, 0},
		{Balance, 2, 1},
		{InputGain, -90, -60},
		{OutputGain, 30, 24},
		{MidSide, -1.5, -1},
		{Crossfeed, 1.2, 1},
		{ExciterEnhancer, 250, 100},
		{StereoSpread, math.NaN(), 0},
	}

	s := NewStore()

	for _, tt := range tests {
		if err := s.Set(tt.id, tt.in); err != nil {
			t.Fatalf("Set(%q) error = %v", tt.id, err)
		}

		got, _ := s.Get(tt.id)
		if got != tt.want {
			t.Fatalf("Set(%q, %v) stored %v, want %v", tt.id, tt.in, got, tt.want)
		}
	}
}

func TestStoreUnknownParameter(t *testing.T) {
	s := NewStore()

	if err := s.Set("depth", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("Set() error = %v, want ErrUnknownParameter", err)
	}

	if _, err := s.Get("depth"); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("Get() error = %v, want ErrUnknownParameter", err)
	}
}

func TestStoreSnapshotReflectsSet(t *testing.T) {
	s := NewStore()
	_ = s.Set(Width, 80)
	_ = s.Set(Balance, -0.25)
	_ = s.Set(InputGain, -6)
	_ = s.Set(OutputGain, 3)
	_ = s.Set(MidSide, 0.5)
	_ = s.Set(Crossfeed, 0.1)
	_ = s.Set(ExciterEnhancer, 12)
	_ = s.Set(StereoSpread, 70)

	want := Snapshot{
		Width: 80, Balance: -0.25, InputGainDB: -6, OutputGainDB: 3,
		MidSide: 0.5, Crossfeed: 0.1, ExciterEnhancer: 12, StereoSpread: 70,
	}

	if got := s.Snapshot(); got != want {
		t.Fatalf("Snapshot() = %#v, want %#v", got, want)
	}
}

func TestStoreValuesRestoreRoundTrip(t *testing.T) {
	a := NewStore()
	_ = a.Set(Width, 12.5)
	_ = a.Set(Crossfeed, 0.75)

	b := NewStore()
	if err := b.Restore(a.Values()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if a.Snapshot() != b.Snapshot() {
		t.Fatalf("restored snapshot %#v, want %#v", b.Snapshot(), a.Snapshot())
	}
}

func TestStoreRestoreReportsUnknown(t *testing.T) {
	s := NewStore()

	err := s.Restore(map[string]float64{"width": 10, "depth": 3})
	if !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("Restore() error = %v, want ErrUnknownParameter", err)
	}

	if v, _ := s.Get(Width); v != 10 {
		t.Fatalf("width = %v, want 10", v)
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	_ = s.Set(Width, 3)
	_ = s.Set(InputGain, 10)
	s.Reset()

	if s.Snapshot() != DefaultSnapshot() {
		t.Fatalf("Snapshot() after Reset = %#v", s.Snapshot())
	}
}

func TestStoreTextRoundTrip(t *testing.T) {
	s := NewStore()

	if err := s.SetText(InputGain, "-6.50 dB"); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}

	got, err := s.Format(InputGain)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if got != "-6.50 dB" {
		t.Fatalf("Format() = %q, want %q", got, "-6.50 dB")
	}

	if err := s.SetText(Width, "not a number"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := range 1000 {
			_ = s.Set(Width, float64(i%101))
		}
	}()

	go func() {
		defer wg.Done()

		for range 1000 {
			snap := s.Snapshot()
			if snap.Width < 0 || snap.Width > 100 {
				t.Errorf("width out of range: %v", snap.Width)
				return
			}
		}
	}()

	wg.Wait()
}
