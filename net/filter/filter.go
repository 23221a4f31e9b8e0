package filter

import (
	"github.com/runetale/weft/weftlog"
)

// Packet is one unit of data flowing through the node, treated as an
// opaque immutable byte sequence. A nil or empty packet is the absent
// value, standing in both for "nothing arrived" and for "dropped".
type Packet []byte

// IsAbsent reports whether p carries no data.
func (p Packet) IsAbsent() bool { return len(p) == 0 }

// Interface identifies one of the node's attachment points. It is used
// only as a key into per-interface filter state, never interpreted.
type Interface string

// Filter is applied in order to all incoming and outgoing packets,
// like an iptables rule. Receive filters inbound packets before they
// reach the node's input queue, Send filters outbound packets before
// they reach the link. A filter may return a modified packet, or an
// absent one to drop it; there is no error channel in steady state.
type Filter interface {
	Receive(p Packet, ifc Interface) Packet
	Send(p Packet, ifc Interface) Packet
}

// BaseFilter passes every packet through unchanged in both directions.
// Embed it to override only one direction.
type BaseFilter struct{}

func (BaseFilter) Receive(p Packet, ifc Interface) Packet { return p }

func (BaseFilter) Send(p Packet, ifc Interface) Packet { return p }

// Chain applies filters in configured order. The first filter that
// returns an absent packet stops the chain for that packet and
// direction. A Chain is itself a Filter, so chains nest.
type Chain struct {
	filters []Filter
	log     *weftlog.Weftlog
}

var _ Filter = (*Chain)(nil)

// NewChain builds a chain over filters, applied in the given order for
// both directions. log may be nil when drop logging is not wanted.
func NewChain(log *weftlog.Weftlog, filters ...Filter) *Chain {
	return &Chain{
		filters: filters,
		log:     log,
	}
}

func (c *Chain) Receive(p Packet, ifc Interface) Packet {
	if p.IsAbsent() {
		return nil
	}
	for _, f := range c.filters {
		if p = f.Receive(p, ifc); p.IsAbsent() {
			c.logDrop("receive", f, ifc)
			return nil
		}
	}
	return p
}

func (c *Chain) Send(p Packet, ifc Interface) Packet {
	if p.IsAbsent() {
		return nil
	}
	for _, f := range c.filters {
		if p = f.Send(p, ifc); p.IsAbsent() {
			c.logDrop("send", f, ifc)
			return nil
		}
	}
	return p
}

func (c *Chain) logDrop(dir string, f Filter, ifc Interface) {
	if c.log == nil {
		return
	}
	c.log.Logger.Debugf("%s packet on %s dropped by %T", dir, ifc, f)
}
