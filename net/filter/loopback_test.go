package filter_test

import (
	"bytes"
	"testing"

	"github.com/runetale/weft/net/filter"
)

// sending the same content on two interfaces earns two suppression
// credits, consumed by the first two echoes on any interface.
func Test_LoopbackCreditConservation(t *testing.T) {
	f := filter.NewLoopbackFilter()
	p := filter.Packet("flood me")

	if got := f.Send(p, "eth0"); !bytes.Equal(got, p) {
		t.Fatalf("send should pass through, got %q", got)
	}
	if got := f.Send(p, "eth1"); !bytes.Equal(got, p) {
		t.Fatalf("second send should pass through, got %q", got)
	}

	if got := f.Receive(p, "eth2"); !got.IsAbsent() {
		t.Fatalf("first echo should be absorbed, got %q", got)
	}
	if got := f.Receive(p, "eth2"); !got.IsAbsent() {
		t.Fatalf("second echo should be absorbed, got %q", got)
	}
	if got := f.Receive(p, "eth2"); !bytes.Equal(got, p) {
		t.Fatalf("third copy is genuine traffic, got %q", got)
	}
}

func Test_LoopbackUnsentPacketPasses(t *testing.T) {
	f := filter.NewLoopbackFilter()
	p := filter.Packet("never sent here")

	if got := f.Receive(p, "eth0"); !bytes.Equal(got, p) {
		t.Fatalf("packet without a pending send should pass, got %q", got)
	}
}

func Test_LoopbackAbsentInput(t *testing.T) {
	f := filter.NewLoopbackFilter()

	if got := f.Send(nil, "eth0"); !got.IsAbsent() {
		t.Fatalf("absent send should be absent, got %q", got)
	}
	if got := f.Receive(nil, "eth0"); !got.IsAbsent() {
		t.Fatalf("absent receive should be absent, got %q", got)
	}
}
