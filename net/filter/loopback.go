package filter

import (
	"crypto/md5"
	"sync"
)

// LoopbackFilter absorbs received copies of packets this node itself
// just sent out. Needed whenever the node is attached to a broadcast
// link where every transmission is echoed back to the sender.
//
// Each Send deposits one suppression credit under the packet's content
// digest and each matching Receive consumes one. Sending the same
// content on two interfaces therefore absorbs two echoes, while a
// third received copy passes through as genuine inbound traffic.
// Which interface an echo arrives on is irrelevant.
type LoopbackFilter struct {
	mu      sync.Mutex
	pending map[[md5.Size]byte]int
}

var _ Filter = (*LoopbackFilter)(nil)

func NewLoopbackFilter() *LoopbackFilter {
	return &LoopbackFilter{
		pending: make(map[[md5.Size]byte]int),
	}
}

func (f *LoopbackFilter) Receive(p Packet, ifc Interface) Packet {
	if p.IsAbsent() {
		return nil
	}

	sum := md5.Sum(p)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending[sum] > 0 {
		f.pending[sum]--
		if f.pending[sum] == 0 {
			delete(f.pending, sum)
		}
		return nil
	}
	return p
}

// Send never drops, it only charges the credit for the echo to come.
func (f *LoopbackFilter) Send(p Packet, ifc Interface) Packet {
	if p.IsAbsent() {
		return nil
	}

	sum := md5.Sum(p)

	f.mu.Lock()
	f.pending[sum]++
	f.mu.Unlock()
	return p
}
