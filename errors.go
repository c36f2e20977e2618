// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog

import (
	"fmt"

	"code.hybscloud.com/kont"
)

// ErrorEnvelope is the well-known record a worker emits in place of a normal
// output when its transition faults. Kind is always "error"; downstream
// consumers distinguish error envelopes from normal values by type-asserting
// an output to *ErrorEnvelope, or by checking Kind.
type ErrorEnvelope struct {
	Kind  string
	Cause error
	Input any
}

// Error implements the error interface so an ErrorEnvelope can itself be
// passed to fmt.Errorf and friends.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("cog: transition fault on input %v: %v", e.Input, e.Cause)
}

// FaultHandler converts a transition fault into the value that should be
// published in its place. The default fault handler wraps the fault in an
// *ErrorEnvelope.
type FaultHandler func(cause error, input any) any

// defaultFaultHandler is used when a Cog is constructed without an explicit
// FaultHandler.
func defaultFaultHandler(cause error, input any) any {
	return &ErrorEnvelope{Kind: "error", Cause: cause, Input: input}
}

// invoke runs transition on (ctx, msg), recovering any panic raised by the
// user's transition function. On success it returns kont.Right with the
// (ctx', output) pair; on fault it returns kont.Left with the recovered
// error, the same short-circuit Either shape used elsewhere for a
// short-circuited computation.
func invoke(transition Transition, ctx, msg any) kont.Either[error, transitionResult] {
	var result transitionResult
	var faultErr error

	func() {
		defer func() {
			if r := recover(); r != nil {
				faultErr = toError(r)
			}
		}()
		ctx2, out := transition(ctx, msg)
		result = transitionResult{ctx: ctx2, output: out}
	}()

	if faultErr != nil {
		return kont.Left[error, transitionResult](faultErr)
	}
	return kont.Right[error, transitionResult](result)
}

// transitionResult bundles a completed transition's new context and output.
type transitionResult struct {
	ctx    any
	output any
}

// toError normalizes a recovered panic value into an error.
func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
