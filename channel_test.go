// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cogflow/cog"
)

func TestChannelSynchronousRendezvous(t *testing.T) {
	ch := cog.NewChannel()

	done := make(chan bool, 1)
	go func() { done <- ch.Send("a") }()

	// Give the sender a moment to reach its blocking point; it must not
	// have delivered anything yet since there is no receiver.
	select {
	case <-done:
		t.Fatal("Send on a synchronous channel returned before any Receive")
	case <-time.After(20 * time.Millisecond):
	}

	v, ok := ch.Receive()
	if !ok || v != "a" {
		t.Fatalf("Receive() = (%v, %v), want (a, true)", v, ok)
	}
	if !<-done {
		t.Fatal("Send reported failure after a successful rendezvous")
	}
}

func TestChannelFixedCapacityBlocksWhenFull(t *testing.T) {
	ch := cog.NewBufferedChannel(2)
	if !ch.Send(1) || !ch.Send(2) {
		t.Fatal("Send failed within capacity")
	}

	done := make(chan bool, 1)
	go func() { done <- ch.Send(3) }()

	select {
	case <-done:
		t.Fatal("Send succeeded past capacity before any Receive freed a slot")
	case <-time.After(20 * time.Millisecond):
	}

	v, ok := ch.Receive()
	if !ok || v != 1 {
		t.Fatalf("Receive() = (%v, %v), want (1, true)", v, ok)
	}
	if !<-done {
		t.Fatal("Send did not succeed once a slot freed up")
	}
}

func TestChannelSlidingDropsOldest(t *testing.T) {
	ch := cog.NewSlidingChannel()
	if !ch.Send(1) || !ch.Send(2) || !ch.Send(3) {
		t.Fatal("sliding Send should never block or fail while open")
	}
	v, ok := ch.Receive()
	if !ok || v != 3 {
		t.Fatalf("Receive() = (%v, %v), want (3, true) — sliding-1 keeps only the newest", v, ok)
	}
}

func TestChannelCloseDrainsThenSignalsEndOfStream(t *testing.T) {
	ch := cog.NewBufferedChannel(4)
	ch.Send("x")
	ch.Send("y")
	ch.Close()

	v, ok := ch.Receive()
	if !ok || v != "x" {
		t.Fatalf("Receive() = (%v, %v), want (x, true): a closed channel must drain first", v, ok)
	}
	v, ok = ch.Receive()
	if !ok || v != "y" {
		t.Fatalf("Receive() = (%v, %v), want (y, true)", v, ok)
	}
	if _, ok = ch.Receive(); ok {
		t.Fatal("Receive() on a drained, closed channel should report end-of-stream")
	}
	if ch.Send("z") {
		t.Fatal("Send on a closed channel should fail")
	}
}

func TestChannelCloseIsIdempotent(t *testing.T) {
	ch := cog.NewChannel()
	ch.Close()
	ch.Close() // must not panic or deadlock
	if !ch.Closed() {
		t.Fatal("Closed() should report true after Close()")
	}
}

func TestChannelOfferAndPollAreNonBlocking(t *testing.T) {
	ch := cog.NewBufferedChannel(1)
	if !ch.Offer("a") {
		t.Fatal("Offer should succeed into an empty buffered channel")
	}
	if ch.Offer("b") {
		t.Fatal("Offer should fail once the buffer is full")
	}
	v, ok := ch.Poll()
	if !ok || v != "a" {
		t.Fatalf("Poll() = (%v, %v), want (a, true)", v, ok)
	}
	if _, ok = ch.Poll(); ok {
		t.Fatal("Poll() on an empty channel should report no value")
	}
}

func TestChannelTransformExpandsOneToMany(t *testing.T) {
	ch := cog.NewBufferedChannel(8).WithTransform(func(v any) ([]any, error) {
		n := v.(int)
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, i)
		}
		return out, nil
	}, nil)

	ch.Send(3)
	for i := 0; i < 3; i++ {
		v, ok := ch.Receive()
		if !ok || v != i {
			t.Fatalf("Receive() #%d = (%v, %v), want (%d, true)", i, v, ok, i)
		}
	}
}

func TestChannelTransformFaultWithoutHandlerCloses(t *testing.T) {
	ch := cog.NewChannel().WithTransform(func(v any) ([]any, error) {
		return nil, errors.New("boom")
	}, nil)

	if ch.Send("x") {
		t.Fatal("Send should report failure when its transform faults with no handler")
	}
	if !ch.Closed() {
		t.Fatal("an unhandled transform fault should close the channel")
	}
}

func TestChannelTransformFaultHandlerReplaces(t *testing.T) {
	ch := cog.NewBufferedChannel(1).WithTransform(
		func(v any) ([]any, error) { return nil, errors.New("boom") },
		func(fault error) (any, bool) { return "replacement", true },
	)
	if !ch.Send("x") {
		t.Fatal("Send should succeed when the fault handler supplies a replacement")
	}
	v, ok := ch.Receive()
	if !ok || v != "replacement" {
		t.Fatalf("Receive() = (%v, %v), want (replacement, true)", v, ok)
	}
}

func TestChannelTransformFaultHandlerDrops(t *testing.T) {
	ch := cog.NewBufferedChannel(1).WithTransform(
		func(v any) ([]any, error) { return nil, errors.New("boom") },
		func(fault error) (any, bool) { return nil, false },
	)
	if !ch.Send("x") {
		t.Fatal("Send should succeed (as a no-op enqueue) when the fault handler drops")
	}
	if ch.Closed() {
		t.Fatal("a dropped fault should not close the channel")
	}
	if _, ok := ch.Poll(); ok {
		t.Fatal("a dropped value should never reach the buffer")
	}
}
