// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runetale/weft/net/filter"
	"github.com/runetale/weft/utils"
	"github.com/runetale/weft/weftlog"
)

// Spec is the weft chain config json.
// path's here => '/etc/weft/chain.json'
//
// Filters are applied to every packet in the listed order, on both
// the receive and the send path.
type Spec struct {
	LogFile  string       `json:"logfile"`
	LogLevel string       `json:"log_level"`
	Filters  []FilterSpec `json:"filters"`

	path    string
	weftlog *weftlog.Weftlog
}

// FilterSpec names one filter stage. Pattern and Invert only apply to
// the "match" type.
type FilterSpec struct {
	Type    string `json:"type"`
	Pattern string `json:"pattern,omitempty"`
	Invert  bool   `json:"invert,omitempty"`
}

const (
	FilterDuplicate = "duplicate"
	FilterLoopback  = "loopback"
	FilterUnique    = "unique"
	FilterMatch     = "match"
)

func NewSpec(path string, logFile, logLevel string, log *weftlog.Weftlog) *Spec {
	return &Spec{
		LogFile:  logFile,
		LogLevel: logLevel,
		path:     path,
		weftlog:  log,
	}
}

// LoadSpec reads the chain config, writing a default one first when
// none exists yet.
func (s *Spec) LoadSpec() (*Spec, error) {
	b, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s.writeSpec(defaultFilters())
	case err != nil:
		s.weftlog.Logger.Errorf("%s could not be read, because %v", s.path, err)
		return nil, err
	default:
		var spec Spec
		if err := json.Unmarshal(b, &spec); err != nil {
			s.weftlog.Logger.Warnf("can not read chain config file, because %v", err)
			return nil, err
		}

		if spec.LogFile != "" {
			s.LogFile = spec.LogFile
		}
		if spec.LogLevel != "" {
			s.LogLevel = spec.LogLevel
		}
		s.Filters = spec.Filters

		return s, nil
	}
}

func (s *Spec) writeSpec(filters []FilterSpec) (*Spec, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.weftlog.Logger.Warnf("failed to create directory with %s, because %v", s.path, err)
		return nil, err
	}

	s.Filters = filters

	b, err := json.MarshalIndent(*s, "", "\t")
	if err != nil {
		return nil, err
	}

	if err = utils.AtomicWriteFile(s.path, b, 0644); err != nil {
		return nil, err
	}

	return s, nil
}

// the stock chain for a node on a broadcast mesh link. order matters:
// echoes of our own sends are absorbed before duplicate latching, and
// global dedup runs last on traffic that survived the first two.
func defaultFilters() []FilterSpec {
	return []FilterSpec{
		{Type: FilterLoopback},
		{Type: FilterDuplicate},
		{Type: FilterUnique},
	}
}

// Build constructs the configured filters in order, ready to be handed
// to filter.NewChain.
func (s *Spec) Build() ([]filter.Filter, error) {
	filters := make([]filter.Filter, 0, len(s.Filters))
	for i, fs := range s.Filters {
		f, err := build(fs)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func build(fs FilterSpec) (filter.Filter, error) {
	switch fs.Type {
	case FilterDuplicate:
		return filter.NewDuplicateFilter(), nil
	case FilterLoopback:
		return filter.NewLoopbackFilter(), nil
	case FilterUnique:
		return filter.NewUniqueFilter(), nil
	case FilterMatch:
		if fs.Invert {
			return filter.DontMatch(fs.Pattern)
		}
		return filter.Match(fs.Pattern)
	default:
		return nil, fmt.Errorf("unknown filter type %q", fs.Type)
	}
}
