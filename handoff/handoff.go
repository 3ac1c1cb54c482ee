// Package handoff passes the latest processed stereo block from the audio
// goroutine to analysis consumers without locking.
//
// Channel is a triple buffer: the producer owns a back slot, the consumer
// owns a front slot, and a middle slot is exchanged between them with a
// single atomic swap. A publish overwrites whatever the consumer has not
// picked up yet, so consumers always see the most recent complete pair and
// never a partially written one.
package handoff

import (
	"sync/atomic"
)

const (
	indexMask = 0b011
	freshBit  = 0b100
)

// Snapshot is a left/right pair of equal length.
type Snapshot struct {
	Left  []float64
	Right []float64
}

// Len returns the number of frames in the snapshot.
func (s Snapshot) Len() int { return len(s.Left) }

// Channel is a single-producer, single-consumer overwrite slot.
//
// Publish must only be called from one goroutine and Latest from one other
// goroutine. Prepare must not run concurrently with either.
type Channel struct {
	slots [3]Snapshot

	// state holds the middle slot index and the fresh flag.
	state atomic.Uint32

	back  int
	front int

	published atomic.Uint64
}

// NewChannel returns a channel with slots preallocated for maxFrames.
func NewChannel(maxFrames int) *Channel {
	c := &Channel{}
	c.Prepare(maxFrames)

	return c
}

// Prepare (re)allocates the slots for blocks of up to maxFrames and drops
// any pending snapshot.
func (c *Channel) Prepare(maxFrames int) {
	if maxFrames < 0 {
		maxFrames = 0
	}

	for i := range c.slots {
		c.slots[i] = Snapshot{
			Left:  make([]float64, 0, maxFrames),
			Right: make([]float64, 0, maxFrames),
		}
	}

	c.back = 0
	c.state.Store(1)
	c.front = 2
	c.published.Store(0)
}

// Publish copies left and right into the back slot and makes it the
// freshest snapshot. The right channel is truncated or zero-padded to the
// length of left, so a mono producer may pass nil.
//
// Publish never blocks. It allocates only when a block is longer than any
// block previously seen by its slot.
func (c *Channel) Publish(left, right []float64) {
	slot := &c.slots[c.back]
	n := len(left)

	slot.Left = grow(slot.Left, n)
	copy(slot.Left, left)

	slot.Right = grow(slot.Right, n)
	m := copy(slot.Right, right)

	for i := m; i < n; i++ {
		slot.Right[i] = 0
	}

	prev := c.state.Swap(uint32(c.back) | freshBit)
	c.back = int(prev & indexMask)

	c.published.Add(1)
}

// Latest returns the most recently published snapshot and reports whether
// it arrived since the previous call. The returned slices stay valid until
// the next call to Latest and must not be modified.
func (c *Channel) Latest() (Snapshot, bool) {
	if c.state.Load()&freshBit == 0 {
		return c.slots[c.front], false
	}

	prev := c.state.Swap(uint32(c.front))
	c.front = int(prev & indexMask)

	return c.slots[c.front], true
}

// Published returns the number of Publish calls since the last Prepare.
func (c *Channel) Published() uint64 {
	return c.published.Load()
}

func grow(buf []float64, n int) []float64 {
	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}
