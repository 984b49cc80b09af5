// Package ringbuf provides a bounded, overwrite-oldest ring of trade events.
// The live session manager records every emitted event here so the recent
// trade feed survives individual connections coming and going.
package ringbuf

import (
	"sync"

	"signal-systemv1/internal/model"
)

// Ring is a fixed-capacity ring of trade events. When full, a push
// overwrites the oldest entry. Safe for concurrent use by multiple
// sessions.
type Ring struct {
	mu    sync.Mutex
	buf   []model.TradeEvent
	head  int // next write position
	count int
}

// New creates a ring holding up to capacity events. Minimum capacity is 1.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]model.TradeEvent, capacity)}
}

// Push records an event, overwriting the oldest when full.
func (r *Ring) Push(ev model.TradeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.head] = ev
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Snapshot returns the buffered events, oldest first.
func (r *Ring) Snapshot() []model.TradeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.TradeEvent, 0, r.count)
	start := r.head - r.count
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Len returns the number of buffered events.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}
