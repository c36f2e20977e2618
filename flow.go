// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

// Flow wires an ordered sequence of stages into a single pipeline,
// returning an IoEndpoint. A value sent to the endpoint travels
// stages[0] → stages[1] → … → stages[n-1], the reply from each stage
// becoming the next stage's input; the final reply is emitted on the
// endpoint's output. Closing the endpoint's input drains and closes the
// pipeline; any internal stage closing does the same.
func Flow(stages ...Endpoint) *IoEndpoint {
	if len(stages) == 0 {
		panic("cog: Flow requires at least one stage")
	}
	in := newChannel(kindSynchronous, 0, nil, nil)
	out := NewChannel()
	go flowLoop(in, out, stages)
	return &IoEndpoint{in: in, out: out}
}

func flowLoop(in, out *Channel, stages []Endpoint) {
	defer func() {
		in.Close()
		out.Close()
	}()
	for {
		v, ok := in.Receive()
		if !ok {
			return
		}
		cur := v
		for _, stage := range stages {
			if !stage.Send(cur) {
				return
			}
			reply, ok := stage.Receive()
			if !ok {
				return
			}
			cur = reply
		}
		if !out.Send(cur) {
			return
		}
	}
}
