// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

import "code.hybscloud.com/atomix"

// Transition advances a Cog by one step: given the current context and an
// incoming message, it returns the next context and the value to publish.
// A Transition panics to signal a fault; Cog recovers the panic and routes
// it through the Cog's FaultHandler instead of crashing the worker.
type Transition func(ctx, msg any) (nextCtx, output any)

// outputSink is whatever a Cog's worker publishes finished output to. It is
// satisfied by both *Channel (synchronous and sliding-1 output policies) and
// *spscTap (fixed-capacity output policies), so the worker loop never has to
// know which one it is talking to.
type outputSink interface {
	put(v any) bool
	close()
}

// channelSink adapts *Channel to outputSink.
type channelSink struct{ ch *Channel }

func (s channelSink) put(v any) bool { return s.ch.Send(v) }
func (s channelSink) close()         { s.ch.Close() }

// Cog is a stateful agent: an input Channel, a context cell, a Transition,
// and an output that feeds a Broadcast. Every message sent to a Cog is
// applied to the current context exactly once, in the order it was
// received; the resulting context replaces the old one atomically before
// the corresponding output is published.
type Cog struct {
	in   *Channel
	cell *atomCell

	transition Transition
	onFault    FaultHandler

	outputTransform Transform
	outputFault     TransformFaultHandler

	sink  outputSink
	out   *Channel  // present for sliding-1 and synchronous output policies
	tap   *spscTap  // present for fixed-capacity output policies
	bcast *Broadcast

	// io is the Cog's own fixed endpoint, set up once at construction: the
	// same subscriber Send and Receive both go through, so a *Cog satisfies
	// Endpoint directly instead of a caller minting a fresh one per call.
	io *IoEndpoint

	// done is a pointer so a passive Fork (see fork.go), which has no
	// worker of its own, can share the parent's run-state flag instead of
	// forever reporting "not done".
	done *atomix.Uint32
}

// newPrimaryEndpoint builds a fresh subscriber on bcast and pairs it with
// in, giving a Cog its single fixed Endpoint identity.
func newPrimaryEndpoint(in *Channel, bcast *Broadcast) *IoEndpoint {
	out := NewChannel()
	bcast.Subscribe(out, true)
	return &IoEndpoint{in: in, out: out}
}

// Option configures a Cog at construction.
type Option func(*cogConfig)

type cogConfig struct {
	outputCapacity  int // 0 means synchronous unless sliding is set
	sliding         bool
	faultHandler    FaultHandler
	inputTransform  Transform
	inputFault      TransformFaultHandler
	outputTransform Transform
	outputFault     TransformFaultHandler
}

// WithOutputCapacity gives the Cog's output a fixed, non-zero buffer
// instead of the default synchronous (capacity 0) policy. It backs the
// output with the lock-free single-producer/single-consumer tap, since a
// Cog's worker is the output's sole producer and its Broadcast pump is the
// sole consumer.
func WithOutputCapacity(capacity int) Option {
	return func(c *cogConfig) {
		if capacity < 1 {
			panic("cog: WithOutputCapacity requires capacity >= 1")
		}
		c.outputCapacity = capacity
		c.sliding = false
	}
}

// WithSlidingOutput gives the Cog's output sliding-1 semantics: the
// Broadcast always sees the most recently produced value, with older,
// un-broadcast values silently displaced.
func WithSlidingOutput() Option {
	return func(c *cogConfig) { c.sliding = true }
}

// WithFaultHandler overrides the default fault handler, which wraps a
// transition fault in an *ErrorEnvelope and publishes it as ordinary
// output.
func WithFaultHandler(h FaultHandler) Option {
	return func(c *cogConfig) { c.faultHandler = h }
}

// WithInputTransform attaches an enqueue-time transform to the Cog's input,
// letting a sender's single Send expand to zero or more transitions.
func WithInputTransform(transform Transform, onFault TransformFaultHandler) Option {
	return func(c *cogConfig) {
		c.inputTransform = transform
		c.inputFault = onFault
	}
}

// WithOutputTransform attaches a transform to the Cog's output queue,
// applied once per published value before any subscriber — including the
// Cog's own primary endpoint — sees it. Mirrors WithInputTransform's
// map/filter/expand contract, on the worker's output instead of its input.
func WithOutputTransform(transform Transform, onFault TransformFaultHandler) Option {
	return func(c *cogConfig) {
		c.outputTransform = transform
		c.outputFault = onFault
	}
}

// New constructs a Cog with the given initial context and Transition, and
// starts its worker goroutine. The initial context must not be mutated
// after this call; New takes the immutable-snapshot discipline as given.
func New(initialCtx any, transition Transition, opts ...Option) *Cog {
	if transition == nil {
		panic("cog: New requires a transition")
	}

	cfg := cogConfig{faultHandler: defaultFaultHandler}
	for _, opt := range opts {
		opt(&cfg)
	}

	in := newChannel(kindSynchronous, 0, cfg.inputTransform, cfg.inputFault)

	g := &Cog{
		in:              in,
		cell:            newAtomCell(initialCtx),
		transition:      transition,
		onFault:         cfg.faultHandler,
		outputTransform: cfg.outputTransform,
		outputFault:     cfg.outputFault,
		done:            &atomix.Uint32{},
	}

	var next func() (any, bool)
	switch {
	case cfg.sliding:
		out := NewSlidingChannel()
		g.out = out
		g.sink = channelSink{out}
		next = out.Receive
	case cfg.outputCapacity > 0:
		tap := newSPSCTap(cfg.outputCapacity)
		g.tap = tap
		g.sink = tap
		next = tap.get
	default:
		out := NewChannel()
		g.out = out
		g.sink = channelSink{out}
		next = out.Receive
	}
	g.bcast = NewBroadcast(next)
	g.io = newPrimaryEndpoint(in, g.bcast)

	go g.run()
	return g
}

// run is the Cog's worker loop: the sole writer of its context cell and the
// sole producer into its output sink.
func (g *Cog) run() {
	for {
		msg, ok := g.in.Receive()
		if !ok {
			g.done.Store(1)
			g.sink.close()
			return
		}

		ctx := g.cell.load()
		either := invoke(g.transition, ctx, msg)
		if either.IsLeft() {
			fault, _ := either.GetLeft()
			out := g.onFault(fault, msg)
			if !g.publish(out) {
				g.done.Store(1)
				g.sink.close()
				return
			}
			continue
		}

		result, _ := either.GetRight()
		g.cell.store(result.ctx)
		if !g.publish(result.output) {
			g.done.Store(1)
			g.sink.close()
			return
		}
	}
}

// publish applies the Cog's output transform, if any, and forwards the
// result to the output sink, expanding to zero or more published values —
// the same map/filter/expand contract Channel's enqueue-time transform
// gives a plain queue, applied once so every subscriber sees the same
// published stream regardless of which sink backs this Cog's output
// policy.
func (g *Cog) publish(v any) bool {
	if g.outputTransform == nil {
		return g.sink.put(v)
	}
	values, err := g.outputTransform(v)
	if err != nil {
		if g.outputFault == nil {
			return false
		}
		replacement, keep := g.outputFault(err)
		if !keep {
			return true
		}
		values = []any{replacement}
	}
	for _, val := range values {
		if !g.sink.put(val) {
			return false
		}
	}
	return true
}

// Send delivers msg to the Cog, blocking until the worker accepts it. It
// returns false if the Cog's input is closed.
func (g *Cog) Send(msg any) bool { return g.in.Send(msg) }

// Offer is the non-blocking form of Send.
func (g *Cog) Offer(msg any) bool { return g.in.Offer(msg) }

// Receive pulls the next value published by this Cog from its own primary
// endpoint, or reports end-of-stream. Together with Send, this is what
// makes *Cog itself satisfy Endpoint: a cog composes as a channel without
// a caller first minting a throwaway IoEndpoint.
func (g *Cog) Receive() (any, bool) { return g.io.Receive() }

// Poll is the non-blocking form of Receive.
func (g *Cog) Poll() (any, bool) { return g.io.Poll() }

// Snapshot returns the Cog's current context. It is safe to call
// concurrently with Send and with the worker's own transitions: a Snapshot
// always observes a fully-formed context that some transition produced (or
// the initial context), never a partial write.
func (g *Cog) Snapshot() any { return g.cell.load() }

// Subscribe registers ch to receive a copy of every output the Cog
// publishes from now on. closeOnEnd selects whether ch is closed when the
// Cog stops.
func (g *Cog) Subscribe(ch *Channel, closeOnEnd bool) { g.bcast.Subscribe(ch, closeOnEnd) }

// Unsubscribe removes ch from the Cog's subscriber set.
func (g *Cog) Unsubscribe(ch *Channel) { g.bcast.Unsubscribe(ch) }

// IoEndpoint returns the Cog's own fixed endpoint — the same one Send,
// Offer, Receive, and Poll use. It returns the same value on every call
// rather than minting a fresh subscriber: a Cog has a single primary io
// endpoint, not one per caller. Use Subscribe directly for an additional,
// independent copy of the output stream.
func (g *Cog) IoEndpoint() *IoEndpoint { return g.io }

// Close closes the Cog's input. The worker drains any message already
// in-flight, then closes its output sink and every closeOnEnd subscriber.
// Idempotent.
func (g *Cog) Close() { g.in.Close() }

// Closed reports whether the Cog's worker has stopped.
func (g *Cog) Closed() bool { return g.done.Load() != 0 }
