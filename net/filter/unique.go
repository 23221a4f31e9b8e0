package filter

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go4.org/mem"
)

// A tagged packet starts with idMarker, then idHexLen lowercase hex
// characters, then "; ", then the original payload.
const (
	idMarker = "HASH:"
	idHexLen = 2 * md5.Size
	idStart  = len(idMarker)
	idEnd    = idStart + idHexLen
)

// UniqueFilter drops any packet whose embedded identifier has been
// seen before, across every interface of the node. Locally originated
// packets get tagged with a fresh identifier on Send, so a packet is
// accepted at most once per node no matter how many mesh paths carry
// copies of it. The seen set only grows for the life of the instance.
type UniqueFilter struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	nodeID string
}

var _ Filter = (*UniqueFilter)(nil)

func NewUniqueFilter() *UniqueFilter {
	return &UniqueFilter{
		seen:   make(map[string]struct{}),
		nodeID: uuid.NewString(),
	}
}

// Receive passes a tagged packet through once, tag included, and drops
// every later copy. Untagged packets are dropped outright: anything
// this overlay did not tag on the way out is not treated as real
// traffic here.
func (f *UniqueFilter) Receive(p Packet, ifc Interface) Packet {
	id, ok := packetID(p)
	if !ok {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, dup := f.seen[id]; dup {
		return nil
	}
	f.seen[id] = struct{}{}
	return p
}

// Send records the identifier of a packet being relayed onward, or
// tags a packet originated by this node with a freshly generated one.
func (f *UniqueFilter) Send(p Packet, ifc Interface) Packet {
	if p.IsAbsent() {
		return nil
	}

	if id, ok := packetID(p); ok {
		f.mu.Lock()
		f.seen[id] = struct{}{}
		f.mu.Unlock()
		return p
	}

	id := f.newPacketID(ifc)
	f.mu.Lock()
	f.seen[id] = struct{}{}
	f.mu.Unlock()

	out := make(Packet, 0, idEnd+2+len(p))
	out = append(out, idMarker...)
	out = append(out, id...)
	out = append(out, "; "...)
	out = append(out, p...)
	return out
}

// packetID extracts the embedded identifier from a tagged packet.
func packetID(p Packet) (string, bool) {
	if len(p) < idEnd || !mem.HasPrefix(mem.B(p), mem.S(idMarker)) {
		return "", false
	}
	return string(p[idStart:idEnd]), true
}

// newPacketID derives an identifier from the node instance id, the
// interface and a high resolution timestamp, digested to fixed width.
func (f *UniqueFilter) newPacketID(ifc Interface) string {
	seed := f.nodeID + string(ifc) + strconv.FormatInt(time.Now().UnixNano(), 10)
	sum := md5.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])
}
