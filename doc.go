// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cog provides a small channel-oriented runtime for composing
// stateful concurrent agents ("cogs") into dataflow graphs.
//
// A cog owns private context, advances that context by running a transition
// function on a dedicated worker, and publishes its output through a
// [Broadcast]. The cog exposes a single [IoEndpoint]: sends go to its input,
// receives come from its output. Composition is ordinary channel
// composition — a cog is just a channel.
//
// # Architecture
//
//   - Transport: [Channel] implements synchronous (capacity 0), fixed, and
//     sliding-1 buffering, with an optional enqueue-time transform and fault
//     handler.
//   - Fan-out: [Broadcast] delivers one source to many subscribers. The
//     link between a [Cog]'s worker and its broadcast is backed by a
//     lock-free SPSC ring ([code.hybscloud.com/lfq]) when the configured
//     output policy is a fixed, non-zero capacity — the one queue in this
//     system provably single-producer/single-consumer by construction.
//   - Context: the cog's context-cell is an atomic pointer to an immutable
//     value; a [Cog.Snapshot] is a single atomic load, and every transition
//     installs its result with a single atomic store.
//   - Derivation: [Fork] and [Extend] spawn cogs sharing or transforming a
//     parent's context-cell.
//   - Composition: [Flow], [Fanout], [Gate], and [Dialogue] wire channels
//     and cogs into pipelines, scatter-gather graphs, and two-party
//     conversations.
//
// # Error handling
//
// A transition fault (a panic inside the user's transition function) never
// crashes the worker: it is recovered and converted to an [ErrorEnvelope] on
// the cog's output stream. The cog keeps running. Programmer faults — a nil
// transition given to New, a nil parent given to Fork or Extend, an empty
// stage or arm list given to Flow or Fanout — panic synchronously at
// construction. Flow, Fanout, Gate, and Dialogue do not check the
// endpoints they are given for nil.
//
// # Example
//
//	echo := cog.New([]string{}, func(ctx, msg any) (any, any) {
//		c := ctx.([]string)
//		return append(c, msg.(string)), "echo:" + msg.(string)
//	})
//	io := echo.IoEndpoint()
//	io.Send("a")
//	out, _ := io.Receive() // "echo:a"
package cog
