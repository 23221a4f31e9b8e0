package filter

import (
	"bytes"
	"errors"
)

// StringFilter gates inbound packets on a fixed byte pattern. Pattern
// and inversion are set at construction and never change; the filter
// keeps no mutable state. Outbound packets always pass through
// unchanged, gating is receive-only.
type StringFilter struct {
	BaseFilter
	pattern []byte
	invert  bool
}

var _ Filter = (*StringFilter)(nil)

// Match builds a filter that only passes packets containing pattern.
func Match(pattern string) (*StringFilter, error) {
	return newStringFilter([]byte(pattern), false)
}

// DontMatch builds a filter that drops packets containing pattern.
func DontMatch(pattern string) (*StringFilter, error) {
	return newStringFilter([]byte(pattern), true)
}

func newStringFilter(pattern []byte, invert bool) (*StringFilter, error) {
	if len(pattern) == 0 {
		return nil, errors.New("string filter requires a non-empty pattern")
	}
	return &StringFilter{
		pattern: pattern,
		invert:  invert,
	}, nil
}

func (f *StringFilter) Receive(p Packet, ifc Interface) Packet {
	if p.IsAbsent() {
		return nil
	}
	if bytes.Contains(p, f.pattern) != f.invert {
		return p
	}
	return nil
}
