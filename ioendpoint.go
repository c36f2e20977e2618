// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

// Endpoint is anything a combinator can send a value to and receive a value
// from: a blocking Send/Receive pair that returns false once the
// destination (or source) has closed. *Channel and *IoEndpoint both satisfy
// it without any adapter, so a combinator can take either a raw Channel or
// a Cog's IoEndpoint as an arm — composition is ordinary channel
// composition.
//
// A combinator drives each arm with a single coordinator goroutine: Send(v)
// followed by Receive() on the same Endpoint. A Cog's IoEndpoint is always
// safe here, since the cog's own worker and broadcast pump service it
// independently of the coordinator. A bare *Channel arm with no servicing
// goroutine of its own is only safe at capacity >= 1 (NewBufferedChannel or
// NewSlidingChannel); a capacity-0 *Channel arm would have the coordinator's
// own Send wait on a Receive it hasn't issued yet.
type Endpoint interface {
	Send(v any) bool
	Receive() (any, bool)
}

// IoEndpoint pairs an input Channel (sends go here) with an output Channel
// (receives come from here), presenting one handle. It is the uniform shape
// every Cog and combinator returns: a cog is just a channel.
type IoEndpoint struct {
	in  *Channel
	out *Channel
}

// NewIoEndpoint builds an IoEndpoint over an existing (in, out) pair. Most
// callers get an IoEndpoint from New, Flow, Fanout, Gate, or Dialogue
// instead of constructing one directly.
func NewIoEndpoint(in, out *Channel) *IoEndpoint {
	return &IoEndpoint{in: in, out: out}
}

// Send routes v to the endpoint's input. It returns false if the input is
// closed.
func (e *IoEndpoint) Send(v any) bool {
	return e.in.Send(v)
}

// Offer is the non-blocking form of Send.
func (e *IoEndpoint) Offer(v any) bool {
	return e.in.Offer(v)
}

// Receive pulls the next value from the endpoint's output, or reports
// end-of-stream.
func (e *IoEndpoint) Receive() (any, bool) {
	return e.out.Receive()
}

// Poll is the non-blocking form of Receive.
func (e *IoEndpoint) Poll() (any, bool) {
	return e.out.Poll()
}

// Close closes both the input and output channels. Idempotent: closing an
// already-closed endpoint is a no-op.
func (e *IoEndpoint) Close() {
	e.in.Close()
	e.out.Close()
}

// Closed reports whether the endpoint's input has been closed.
func (e *IoEndpoint) Closed() bool {
	return e.in.Closed()
}

// In returns the endpoint's input channel, for combinators that need to
// wire it directly (e.g. subscribing it to a Broadcast).
func (e *IoEndpoint) In() *Channel { return e.in }

// Out returns the endpoint's output channel.
func (e *IoEndpoint) Out() *Channel { return e.out }
