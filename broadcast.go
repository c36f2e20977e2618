// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

import "sync"

// subscription tracks one registered subscriber and its close-on-end
// policy.
type subscription struct {
	ch         *Channel
	closeOnEnd bool
}

// Broadcast lets zero-or-more subscriber Channels receive a copy of every
// value produced on a source. A dedicated pump goroutine receives one value
// at a time from the source and forwards it to every current subscriber,
// suspending until each accepts — a slow subscriber back-pressures the
// whole broadcast, which is why sliding-1 and buffered subscriptions exist.
type Broadcast struct {
	mu   sync.Mutex
	subs []subscription

	next func() (any, bool)
}

// NewBroadcast starts a Broadcast pumping values produced by next until
// next reports end-of-stream. next must be safe to call repeatedly from a
// single goroutine (the pump never calls it concurrently with itself).
func NewBroadcast(next func() (any, bool)) *Broadcast {
	b := &Broadcast{next: next}
	go b.pump()
	return b
}

// Subscribe registers ch to receive a copy of every value produced after
// this call. closeOnEnd selects what happens to ch when the source ends:
// true closes ch, false leaves it open and simply stops delivering to it.
//
// Subscribing is atomic relative to pump iterations: a subscriber
// registered after value v has been dequeued from the source may miss v,
// but is guaranteed to see every subsequent value.
func (b *Broadcast) Subscribe(ch *Channel, closeOnEnd bool) {
	b.mu.Lock()
	b.subs = append(b.subs, subscription{ch: ch, closeOnEnd: closeOnEnd})
	b.mu.Unlock()
}

// Unsubscribe removes ch from the subscriber set. It does not close ch.
func (b *Broadcast) Unsubscribe(ch *Channel) {
	b.mu.Lock()
	for i, s := range b.subs {
		if s.ch == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
}

// snapshot returns the current subscriber list, taken atomically relative
// to Subscribe/Unsubscribe.
func (b *Broadcast) snapshot() []subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	return subs
}

// pump is the sole reader of the source and the sole writer to every
// subscriber channel.
func (b *Broadcast) pump() {
	for {
		v, ok := b.next()
		if !ok {
			for _, s := range b.snapshot() {
				if s.closeOnEnd {
					s.ch.Close()
				}
			}
			return
		}
		for _, s := range b.snapshot() {
			s.ch.Send(v)
		}
	}
}
