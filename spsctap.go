// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// spscTap is the lock-free handoff between a Cog's worker (the sole
// producer) and its Broadcast's pump (the sole consumer). It backs the
// worker's output queue whenever the configured output policy is a fixed,
// non-zero capacity — the one link in this system that is provably
// single-producer/single-consumer by construction.
//
// Synchronous (capacity 0) and sliding-1 output policies fall back to
// Channel: a capacity-0 rendezvous has no ring slot to speak of, and
// sliding-1's drop-oldest is a consumer-side operation that would violate
// the ring's single-consumer invariant if the producer performed it too.
type spscTap struct {
	ring   lfq.SPSC[any]
	closed atomix.Uint32
}

// newSPSCTap creates a tap with a fixed ring capacity. The lfq ring needs
// at least two slots, so a requested capacity of 1 gets a two-slot ring.
func newSPSCTap(capacity int) *spscTap {
	if capacity < 2 {
		capacity = 2
	}
	t := &spscTap{}
	t.ring.Init(capacity)
	return t
}

// put enqueues v, waiting past transient "ring full" with adaptive backoff.
// It returns false if the tap is closed.
func (t *spscTap) put(v any) bool {
	if t.closed.Load() != 0 {
		return false
	}
	var bo iox.Backoff
	for {
		slot := v
		if err := t.ring.Enqueue(&slot); err == nil {
			return true
		}
		if t.closed.Load() != 0 {
			return false
		}
		bo.Wait()
	}
}

// get dequeues the next value, waiting past transient "ring empty" with
// adaptive backoff. It returns (nil, false) once the tap is closed and the
// ring has drained.
func (t *spscTap) get() (any, bool) {
	var bo iox.Backoff
	for {
		v, err := t.ring.Dequeue()
		if err == nil {
			return v, true
		}
		if t.closed.Load() != 0 {
			// The producer may have enqueued a final value between our
			// last failed Dequeue and observing closed; give it one more
			// look before declaring end-of-stream.
			if v2, err2 := t.ring.Dequeue(); err2 == nil {
				return v2, true
			}
			return nil, false
		}
		bo.Wait()
	}
}

// close marks the tap closed. Idempotent.
func (t *spscTap) close() {
	t.closed.CompareAndSwap(0, 1)
}
