package analysis

// DefaultHistoryCapacity is the number of correlation readings kept.
const DefaultHistoryCapacity = 100

// History is a fixed-capacity FIFO of correlation readings. When full, Push
// evicts the oldest value.
type History struct {
	buf   []float64
	start int
	count int
}

// NewHistory returns an empty history holding up to capacity values.
// Non-positive capacities fall back to DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &History{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest value when the history is full.
func (h *History) Push(v float64) {
	if h.count < len(h.buf) {
		h.buf[(h.start+h.count)%len(h.buf)] = v
		h.count++

		return
	}

	h.buf[h.start] = v
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of stored values.
func (h *History) Len() int { return h.count }

// Cap returns the capacity.
func (h *History) Cap() int { return len(h.buf) }

// Values appends the stored values to dst, oldest first.
func (h *History) Values(dst []float64) []float64 {
	for i := range h.count {
		dst = append(dst, h.buf[(h.start+i)%len(h.buf)])
	}

	return dst
}

// Reset drops all values.
func (h *History) Reset() {
	h.start = 0
	h.count = 0
}
