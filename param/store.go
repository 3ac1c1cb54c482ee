package param

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/imagination/dsp/core"
)

// ErrUnknownParameter is returned for identifiers outside the layout.
var ErrUnknownParameter = errors.New("param: unknown parameter")

type slot struct {
	spec Spec
	bits atomic.Uint64
}

func (s *slot) load() float64 { return math.Float64frombits(s.bits.Load()) }

func (s *slot) store(v float64) {
	s.bits.Store(math.Float64bits(core.Clamp(v, s.spec.Min, s.spec.Max)))
}

// Store holds the current value of every parameter.
//
// The set of parameters is fixed at construction, so lookups need no lock.
// All methods are safe for concurrent use; Snapshot is safe to call from the
// audio goroutine.
type Store struct {
	slots map[ID]*slot
	order []*slot
}

// NewStore returns a store with every parameter at its default.
func NewStore() *Store {
	s := &Store{
		slots: make(map[ID]*slot, len(order)),
		order: make([]*slot, 0, len(order)),
	}

	for _, spec := range Specs() {
		sl := &slot{spec: spec}
		sl.store(spec.Default)
		s.slots[spec.ID] = sl
		s.order = append(s.order, sl)
	}

	return s
}

// Set stores v for id, clamped to the parameter range.
func (s *Store) Set(id ID, v float64) error {
	sl, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	sl.store(v)

	return nil
}

// Get returns the current value of id.
func (s *Store) Get(id ID) (float64, error) {
	sl, ok := s.slots[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	return sl.load(), nil
}

// SetText parses text with the parameter's parser and stores the result.
func (s *Store) SetText(id ID, text string) error {
	sl, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	v, err := sl.spec.Parse(text)
	if err != nil {
		return fmt.Errorf("param %s: parse %q: %w", id, text, err)
	}

	sl.store(v)

	return nil
}

// Format renders the current value of id for display.
func (s *Store) Format(id ID) (string, error) {
	sl, ok := s.slots[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	return sl.spec.Format(sl.load()), nil
}

// Reset restores every parameter to its default.
func (s *Store) Reset() {
	for _, sl := range s.order {
		sl.store(sl.spec.Default)
	}
}

// Snapshot reads every parameter once. It does not allocate or block.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Width:           s.slots[Width].load(),
		Balance:         s.slots[Balance].load(),
		InputGainDB:     s.slots[InputGain].load(),
		OutputGainDB:    s.slots[OutputGain].load(),
		MidSide:         s.slots[MidSide].load(),
		Crossfeed:       s.slots[Crossfeed].load(),
		ExciterEnhancer: s.slots[ExciterEnhancer].load(),
		StereoSpread:    s.slots[StereoSpread].load(),
	}
}

// Values returns the current state keyed by identifier.
func (s *Store) Values() map[string]float64 {
	out := make(map[string]float64, len(s.order))
	for _, sl := range s.order {
		out[string(sl.spec.ID)] = sl.load()
	}

	return out
}

// Restore applies a state produced by Values. Known identifiers are applied
// even when the map also holds unknown ones; the unknown ones are reported
// in the returned error.
func (s *Store) Restore(values map[string]float64) error {
	var errs []error

	for key, v := range values {
		if err := s.Set(ID(key), v); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
