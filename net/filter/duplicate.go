package filter

import (
	"bytes"
	"sync"
)

// DuplicateFilter drops a packet that exactly repeats the previous one
// seen on the same interface and direction. A repeat separated by any
// other packet passes through again, and interfaces never share state,
// so the same packet arriving on eth0 and eth1 is not a duplicate.
type DuplicateFilter struct {
	mu       sync.Mutex
	lastRecv map[Interface]Packet
	lastSent map[Interface]Packet
}

var _ Filter = (*DuplicateFilter)(nil)

func NewDuplicateFilter() *DuplicateFilter {
	return &DuplicateFilter{
		lastRecv: make(map[Interface]Packet),
		lastSent: make(map[Interface]Packet),
	}
}

func (f *DuplicateFilter) Receive(p Packet, ifc Interface) Packet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return latch(f.lastRecv, p, ifc)
}

func (f *DuplicateFilter) Send(p Packet, ifc Interface) Packet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return latch(f.lastSent, p, ifc)
}

// latch drops p when it equals the last packet recorded for ifc,
// otherwise records a copy and passes p through. An interface with no
// recorded packet holds the empty packet.
func latch(last map[Interface]Packet, p Packet, ifc Interface) Packet {
	if p.IsAbsent() || bytes.Equal(p, last[ifc]) {
		return nil
	}
	last[ifc] = append(Packet(nil), p...)
	return p
}
