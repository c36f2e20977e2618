// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

import "sync/atomic"

// box makes any value addressable so it can sit behind an atomic pointer.
type box struct{ v any }

// atomCell holds a Cog's context as an atomic pointer to an immutable
// snapshot. A transition never mutates a context in place: it computes a
// new one and the worker installs it with a single atomic store, so
// Snapshot never observes a partially-written value and never needs a lock.
type atomCell struct {
	p atomic.Pointer[box]
}

func newAtomCell(initial any) *atomCell {
	c := &atomCell{}
	c.p.Store(&box{v: initial})
	return c
}

func (c *atomCell) load() any {
	return c.p.Load().v
}

func (c *atomCell) store(v any) {
	c.p.Store(&box{v: v})
}
