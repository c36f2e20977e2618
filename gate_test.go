// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cog_test

import (
	"reflect"
	"testing"

	"github.com/cogflow/cog"
)

func TestGatePairsInputWithLatchValue(t *testing.T) {
	latch := cog.NewBufferedChannel(4)
	gated := cog.Gate(latch)

	latch.Send("L1")
	gated.Send("v1")
	out, ok := gated.Receive()
	if !ok {
		t.Fatal("Receive() reported end-of-stream")
	}
	if !reflect.DeepEqual(out.([]any), []any{"v1", "L1"}) {
		t.Fatalf("Receive() = %v, want [v1 L1]", out)
	}
}

func TestGateClosesWhenLatchCloses(t *testing.T) {
	latch := cog.NewBufferedChannel(1)
	gated := cog.Gate(latch)

	latch.Close()
	gated.Send("v1")

	if _, ok := gated.Receive(); ok {
		t.Fatal("Receive() should observe end-of-stream once the latch channel closes")
	}
}

func TestGatePairsEachInputInOrder(t *testing.T) {
	latch := cog.NewBufferedChannel(4)
	gated := cog.Gate(latch)

	latch.Send("A")
	latch.Send("B")

	gated.Send(1)
	out1, _ := gated.Receive()
	gated.Send(2)
	out2, _ := gated.Receive()

	if !reflect.DeepEqual(out1.([]any), []any{1, "A"}) {
		t.Fatalf("first pair = %v, want [1 A]", out1)
	}
	if !reflect.DeepEqual(out2.([]any), []any{2, "B"}) {
		t.Fatalf("second pair = %v, want [2 B]", out2)
	}
}
