package analysis

import "sync"

const (
	// DefaultScopeFrames is the number of frames a Scope keeps.
	DefaultScopeFrames = 20
	// DefaultScopePoints bounds the points stored per frame.
	DefaultScopePoints = 512
)

// Point is one goniometer sample: X is the side signal (L-R)/2 and Y the
// mid signal (L+R)/2.
type Point struct {
	X, Y float64
}

// Scope keeps the most recent frames of mid/side points for a goniometer
// style display. Older frames are evicted first.
type Scope struct {
	mu        sync.Mutex
	frames    [][]Point
	start     int
	count     int
	maxPoints int
}

// NewScope returns a scope holding up to capacity frames of at most
// maxPoints points. Non-positive arguments select the defaults.
func NewScope(capacity, maxPoints int) *Scope {
	if capacity <= 0 {
		capacity = DefaultScopeFrames
	}

	if maxPoints <= 0 {
		maxPoints = DefaultScopePoints
	}

	frames := make([][]Point, capacity)
	for i := range frames {
		frames[i] = make([]Point, 0, maxPoints)
	}

	return &Scope{frames: frames, maxPoints: maxPoints}
}

// Push converts a stereo pair into a frame. Inputs longer than maxPoints are
// decimated. Empty or mismatched inputs are ignored.
func (s *Scope) Push(left, right []float64) {
	n := len(left)
	if n == 0 || n != len(right) {
		return
	}

	step := max((n+s.maxPoints-1)/s.maxPoints, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := (s.start + s.count) % len(s.frames)
	if s.count == len(s.frames) {
		idx = s.start
		s.start = (s.start + 1) % len(s.frames)
	} else {
		s.count++
	}

	frame := s.frames[idx][:0]
	for i := 0; i < n; i += step {
		l, r := left[i], right[i]
		frame = append(frame, Point{X: 0.5 * (l - r), Y: 0.5 * (l + r)})
	}

	s.frames[idx] = frame
}

// Frames returns copies of the stored frames, oldest first.
func (s *Scope) Frames() [][]Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]Point, s.count)
	for i := range out {
		src := s.frames[(s.start+i)%len(s.frames)]
		out[i] = append([]Point(nil), src...)
	}

	return out
}

// Len returns the number of stored frames.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}
