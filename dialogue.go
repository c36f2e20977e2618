// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

// DialogueOption configures Dialogue.
type DialogueOption func(*dialogueConfig)

type dialogueConfig struct {
	sliding bool
}

// WithDialogueSlidingOutput gives the dialogue's output sliding-1
// semantics instead of the default fixed capacity of 1. Not the default:
// dropping stale turns is a property specific workflows opt into, not a
// general dialogue behavior.
func WithDialogueSlidingOutput() DialogueOption {
	return func(c *dialogueConfig) { c.sliding = true }
}

// Dialogue drives an alternating two-party exchange between a and b,
// returning an IoEndpoint. The first value sent to the endpoint is the
// seed: it goes to a. From then on, each reply from a is forwarded to b
// and published, each reply from b is forwarded to a and published, and so
// on, alternating for as long as both keep replying. If either participant
// ends, the dialogue closes; Dialogue does not own a or b, so closing the
// dialogue never closes them.
func Dialogue(a, b Endpoint, opts ...DialogueOption) *IoEndpoint {
	var cfg dialogueConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	in := newChannel(kindSynchronous, 0, nil, nil)
	var out *Channel
	if cfg.sliding {
		out = NewSlidingChannel()
	} else {
		out = NewBufferedChannel(1)
	}
	go dialogueLoop(in, out, a, b)
	return &IoEndpoint{in: in, out: out}
}

func dialogueLoop(in, out *Channel, a, b Endpoint) {
	defer out.Close()

	seed, ok := in.Receive()
	in.Close()
	if !ok {
		return
	}
	if !a.Send(seed) {
		return
	}

	cur, next := a, b
	for {
		reply, ok := cur.Receive()
		if !ok {
			return
		}
		if !out.Send(reply) {
			return
		}
		if !next.Send(reply) {
			return
		}
		cur, next = next, cur
	}
}
