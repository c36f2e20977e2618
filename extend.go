// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

// Extend is Fork sugar for splicing an input-side or output-side adapter
// onto an existing cog: no context transformation, a caller-supplied
// IoEndpoint, and an optional transition. A nil transition makes the
// extension inherit the parent's transition, matching Fork's own default.
func Extend(parent *Cog, io *IoEndpoint, transition Transition) *Cog {
	opts := []ForkOption{WithForkEndpoint(io)}
	if transition != nil {
		opts = append(opts, WithForkTransition(transition))
	}
	return Fork(parent, opts...)
}
