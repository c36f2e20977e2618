// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

// Gate pairs each input value with the next available value from latch,
// emitting the tuple []any{v, latchValue} on its output. If latch closes,
// the gate closes.
func Gate(latch Endpoint) *IoEndpoint {
	in := newChannel(kindSynchronous, 0, nil, nil)
	out := NewChannel()
	go gateLoop(in, out, latch)
	return &IoEndpoint{in: in, out: out}
}

func gateLoop(in, out *Channel, latch Endpoint) {
	defer func() {
		in.Close()
		out.Close()
	}()
	for {
		v, ok := in.Receive()
		if !ok {
			return
		}
		lv, ok := latch.Receive()
		if !ok {
			return
		}
		if !out.Send([]any{v, lv}) {
			return
		}
	}
}
