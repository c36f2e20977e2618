// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

// FanoutOption configures Fanout.
type FanoutOption func(*fanoutConfig)

type fanoutConfig struct {
	transform Transform
	onFault   TransformFaultHandler
}

// WithGatherTransform applies transform to each arm's reply as it is
// gathered, before it is placed in the result tuple. Only the transform's
// first value fills the slot; if it yields no values, the untransformed
// reply is kept. A transform fault routes to onFault: a replacement value
// fills the slot, while a drop, or a fault with no onFault, ends the
// fanout and closes its endpoint.
func WithGatherTransform(transform Transform, onFault TransformFaultHandler) FanoutOption {
	return func(c *fanoutConfig) {
		c.transform = transform
		c.onFault = onFault
	}
}

// indexedReply is what an arm goroutine deposits on the merge channel: its
// position in the arm list and the (possibly transformed) reply value.
type indexedReply struct {
	index int
	value any
	ok    bool
}

// Fanout scatters each input value to every arm concurrently and gathers
// one reply from each, emitting a tuple ([]any of length len(arms)) whose
// i-th slot is arms[i]'s reply, preserving arm order regardless of
// reply-arrival order. The next input value is not scattered until the
// previous gather completes. The merge channel gathering replies is
// buffered to len(arms), so a reply from a fast arm never blocks waiting
// for a slow one to be gathered.
func Fanout(arms []Endpoint, opts ...FanoutOption) *IoEndpoint {
	if len(arms) == 0 {
		panic("cog: Fanout requires at least one arm")
	}
	var cfg fanoutConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	in := newChannel(kindSynchronous, 0, nil, nil)
	out := NewChannel()
	go fanoutLoop(in, out, arms, cfg)
	return &IoEndpoint{in: in, out: out}
}

func fanoutLoop(in, out *Channel, arms []Endpoint, cfg fanoutConfig) {
	defer func() {
		in.Close()
		out.Close()
	}()

	n := len(arms)
	for {
		v, ok := in.Receive()
		if !ok {
			return
		}

		merge := NewBufferedChannel(n)
		for i, arm := range arms {
			go gatherArm(i, arm, v, merge, cfg)
		}

		tuple := make([]any, n)
		failed := false
		for received := 0; received < n; received++ {
			r, _ := merge.Receive()
			reply := r.(indexedReply)
			if !reply.ok {
				failed = true
				continue
			}
			tuple[reply.index] = reply.value
		}
		if failed {
			return
		}
		if !out.Send(tuple) {
			return
		}
	}
}

func gatherArm(index int, arm Endpoint, v any, merge *Channel, cfg fanoutConfig) {
	if !arm.Send(v) {
		merge.Send(indexedReply{index: index, ok: false})
		return
	}
	reply, ok := arm.Receive()
	if !ok {
		merge.Send(indexedReply{index: index, ok: false})
		return
	}
	if cfg.transform != nil {
		values, err := cfg.transform(reply)
		if err != nil {
			if cfg.onFault == nil {
				merge.Send(indexedReply{index: index, ok: false})
				return
			}
			replacement, keep := cfg.onFault(err)
			if !keep {
				merge.Send(indexedReply{index: index, ok: false})
				return
			}
			reply = replacement
		} else if len(values) > 0 {
			reply = values[0]
		}
	}
	merge.Send(indexedReply{index: index, value: reply, ok: true})
}
