package filter_test

import (
	"bytes"
	"testing"

	"github.com/runetale/weft/net/filter"
)

const tagHeaderLen = len("HASH:") + 32 + len("; ")

func Test_UniqueSendTagsLocalPacket(t *testing.T) {
	f := filter.NewUniqueFilter()
	payload := filter.Packet("hello overlay")

	out := f.Send(payload, "eth0")
	if out.IsAbsent() {
		t.Fatal("send of a local packet should not drop")
	}
	if !bytes.HasPrefix(out, []byte("HASH:")) {
		t.Fatalf("tagged packet must start with the marker, got %q", out)
	}
	if len(out) != tagHeaderLen+len(payload) {
		t.Fatalf("tag header should be %d bytes, got packet %q", tagHeaderLen, out)
	}
	if out[37] != ';' || out[38] != ' ' {
		t.Fatalf("identifier must be followed by %q, got %q", "; ", out)
	}
	if !bytes.HasSuffix(out, payload) {
		t.Fatalf("payload must be carried unchanged, got %q", out)
	}
	for _, c := range out[5:37] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Fatalf("identifier must be lowercase hex, got %q", out[5:37])
		}
	}
}

func Test_UniqueSendThenReceiveSameInstanceDrops(t *testing.T) {
	f := filter.NewUniqueFilter()

	tagged := f.Send(filter.Packet("data"), "eth0")
	if tagged.IsAbsent() {
		t.Fatal("send should tag and pass")
	}

	// send already marked the identifier as seen on this node
	if got := f.Receive(tagged, "eth1"); !got.IsAbsent() {
		t.Fatalf("own transmission should be dropped on receive, got %q", got)
	}
}

func Test_UniqueReceiveOnOtherInstance(t *testing.T) {
	a := filter.NewUniqueFilter()
	b := filter.NewUniqueFilter()

	tagged := a.Send(filter.Packet("data"), "eth0")

	if got := b.Receive(tagged, "eth0"); !bytes.Equal(got, tagged) {
		t.Fatalf("first copy should pass tag included, got %q", got)
	}
	if got := b.Receive(tagged, "eth1"); !got.IsAbsent() {
		t.Fatalf("second copy should be dropped, got %q", got)
	}
}

func Test_UniqueUntaggedReceiveDropped(t *testing.T) {
	f := filter.NewUniqueFilter()

	if got := f.Receive(filter.Packet("no marker here"), "eth0"); !got.IsAbsent() {
		t.Fatalf("untagged inbound traffic is dropped, got %q", got)
	}
}

func Test_UniqueRelayedSendKeepsTag(t *testing.T) {
	f := filter.NewUniqueFilter()
	tagged := filter.Packet("HASH:0123456789abcdef0123456789abcdef; payload")

	if got := f.Send(tagged, "eth0"); !bytes.Equal(got, tagged) {
		t.Fatalf("relayed packet must not be re-tagged, got %q", got)
	}
	// relaying records the identifier, a later echo is a duplicate
	if got := f.Receive(tagged, "eth1"); !got.IsAbsent() {
		t.Fatalf("relayed identifier should be marked seen, got %q", got)
	}
}

func Test_UniqueDistinctSendsGetDistinctIDs(t *testing.T) {
	f := filter.NewUniqueFilter()

	a := f.Send(filter.Packet("one"), "eth0")
	b := f.Send(filter.Packet("two"), "eth1")
	if bytes.Equal(a[5:37], b[5:37]) {
		t.Fatalf("two originated packets must not share an identifier: %q", a[5:37])
	}
}

func Test_UniqueAbsentInput(t *testing.T) {
	f := filter.NewUniqueFilter()

	if got := f.Send(nil, "eth0"); !got.IsAbsent() {
		t.Fatalf("absent send should be absent, got %q", got)
	}
	if got := f.Receive(nil, "eth0"); !got.IsAbsent() {
		t.Fatalf("absent receive should be absent, got %q", got)
	}
}
