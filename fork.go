// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

import "code.hybscloud.com/atomix"

// ContextMapper derives a forked cog's initial context from its parent's
// current context value.
type ContextMapper func(parentCtx any) any

// ForkOption configures Fork.
type ForkOption func(*forkConfig)

type forkConfig struct {
	mapper        ContextMapper
	endpoint      *IoEndpoint
	transition    Transition
	passive       bool
	transitionSet bool
}

// WithContextMapper derives the forked cog's context from the parent's
// current context via mapper instead of sharing the parent's context-cell
// by reference.
func WithContextMapper(mapper ContextMapper) ForkOption {
	return func(c *forkConfig) { c.mapper = mapper }
}

// WithForkEndpoint gives the forked cog a specific IoEndpoint instead of a
// freshly allocated (synchronous) pair.
func WithForkEndpoint(io *IoEndpoint) ForkOption {
	return func(c *forkConfig) { c.endpoint = io }
}

// WithForkTransition gives the forked cog its own transition, spawning a
// fresh worker bound to the forked context-cell. Omitting this option makes
// the fork inherit the parent's transition; which context-cell it uses is
// decided by WithContextMapper alone. A nil transition makes the fork
// passive, exactly as WithPassiveFork does.
func WithForkTransition(transition Transition) ForkOption {
	return func(c *forkConfig) {
		c.transition = transition
		c.transitionSet = true
	}
}

// WithPassiveFork makes the fork passive: it spawns no worker of its own.
// Useful for modality adapters that want to observe a cog's output stream
// without driving transitions themselves. With no explicit endpoint, the
// passive fork shares the parent's own primary endpoint outright rather than
// registering a second subscriber on the parent's broadcast — the parent's
// own endpoint may sit undrained for the lifetime of a fork-only consumer,
// and a second, independent subscriber queued behind it on the same
// broadcast would never see a value, since the pump forwards to subscribers
// in order and blocks on each one in turn. An explicit endpoint's input
// channel must already be wired to something, since a passive fork runs no
// worker to relay sends on its own.
func WithPassiveFork() ForkOption {
	return func(c *forkConfig) {
		c.passive = true
		c.transitionSet = true
	}
}

// Fork derives a new cog from parent. By default the fork shares the
// parent's context-cell by reference, inherits the parent's transition,
// and spawns a fresh worker, queues, and broadcast — it never shares the
// parent's worker or broadcast. WithContextMapper, WithForkEndpoint,
// WithForkTransition, and WithPassiveFork customize each of these
// independently.
func Fork(parent *Cog, opts ...ForkOption) *Cog {
	if parent == nil {
		panic("cog: Fork requires a non-nil parent")
	}
	var cfg forkConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.passive || (cfg.transitionSet && cfg.transition == nil) {
		in := parent.in
		io := cfg.endpoint
		if io != nil {
			in = io.in
			parent.Subscribe(io.out, true)
		} else {
			io = parent.io
		}
		return &Cog{
			in:    in,
			cell:  parent.cell,
			bcast: parent.bcast,
			io:    io,
			done:  parent.done,
		}
	}

	cell := parent.cell
	if cfg.mapper != nil {
		cell = newAtomCell(cfg.mapper(parent.Snapshot()))
	}

	transition := parent.transition
	if cfg.transitionSet && cfg.transition != nil {
		transition = cfg.transition
	}
	if transition == nil {
		panic("cog: Fork requires a transition (inherited or explicit)")
	}

	inputChannel := newChannel(kindSynchronous, 0, nil, nil)
	if cfg.endpoint != nil {
		inputChannel = cfg.endpoint.in
	}

	g := &Cog{
		in:         inputChannel,
		cell:       cell,
		transition: transition,
		onFault:    defaultFaultHandler,
		done:       &atomix.Uint32{},
	}
	out := NewChannel()
	g.out = out
	g.sink = channelSink{out}
	g.bcast = NewBroadcast(out.Receive)

	if cfg.endpoint != nil {
		g.Subscribe(cfg.endpoint.out, true)
		g.io = cfg.endpoint
	} else {
		g.io = newPrimaryEndpoint(inputChannel, g.bcast)
	}

	go g.run()
	return g
}
