package analysis

import "sync"

// State reports whether the analyzer holds a usable stereo snapshot.
type State int

const (
	// Inactive means no snapshot, or the last one was empty or mismatched.
	Inactive State = iota
	// Active means an equal-length, non-empty snapshot is held.
	Active
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// CorrelationAnalyzer tracks the phase correlation of the most recent stereo
// snapshot and records one reading per Tick.
//
// All methods are safe for concurrent use.
type CorrelationAnalyzer struct {
	mu sync.Mutex

	left, right []float64
	state       State
	correlation float64
	history     *History
	corr        correlator

	redraw chan struct{}
}

// NewCorrelationAnalyzer returns an inactive analyzer with a history of
// DefaultHistoryCapacity readings.
func NewCorrelationAnalyzer() *CorrelationAnalyzer {
	return NewCorrelationAnalyzerWithCapacity(DefaultHistoryCapacity)
}

// NewCorrelationAnalyzerWithCapacity is like NewCorrelationAnalyzer with a
// custom history capacity.
func NewCorrelationAnalyzerWithCapacity(capacity int) *CorrelationAnalyzer {
	return &CorrelationAnalyzer{
		history: NewHistory(capacity),
		redraw:  make(chan struct{}, 1),
	}
}

// SetAudioData stores a copy of the snapshot. A non-empty, equal-length pair
// makes the analyzer Active and updates the correlation right away. Anything
// else makes it Inactive with a correlation of 0. The history is never
// touched here.
func (a *CorrelationAnalyzer) SetAudioData(left, right []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.left = append(a.left[:0], left...)
	a.right = append(a.right[:0], right...)

	if len(left) == 0 || len(left) != len(right) {
		a.state = Inactive
		a.correlation = 0

		return
	}

	a.state = Active
	a.correlation = a.corr.compute(a.left, a.right)
}

// Tick recomputes the correlation from the stored snapshot, appends it to
// the history and signals Redraw. The snapshot may be unchanged since the
// last tick. Inactive analyzers do nothing. Tick reports whether a reading
// was appended.
func (a *CorrelationAnalyzer) Tick() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != Active {
		return false
	}

	a.correlation = a.corr.compute(a.left, a.right)
	a.history.Push(a.correlation)

	select {
	case a.redraw <- struct{}{}:
	default:
	}

	return true
}

// Correlation returns the most recent reading.
func (a *CorrelationAnalyzer) Correlation() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.correlation
}

// State returns the current state.
func (a *CorrelationAnalyzer) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.state
}

// History returns a copy of the recorded readings, oldest first.
func (a *CorrelationAnalyzer) History() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.history.Values(make([]float64, 0, a.history.Len()))
}

// Redraw receives a value after each Tick that appended a reading. Pending
// signals coalesce.
func (a *CorrelationAnalyzer) Redraw() <-chan struct{} {
	return a.redraw
}

// Reset returns the analyzer to Inactive and clears its history.
func (a *CorrelationAnalyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.left = a.left[:0]
	a.right = a.right[:0]
	a.state = Inactive
	a.correlation = 0
	a.history.Reset()
}
