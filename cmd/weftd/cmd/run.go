// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v2/ffcli"
	"github.com/runetale/weft/conf"
	"github.com/runetale/weft/net/filter"
	"github.com/runetale/weft/paths"
	"github.com/runetale/weft/weftlog"
)

var runArgs struct {
	configPath string
	iface      string
	dir        string
	logFile    string
	logLevel   string
	debug      bool
}

var runCmd = &ffcli.Command{
	Name:       "run",
	ShortUsage: "run [flags]",
	ShortHelp:  "pump stdin packets through the configured filter chain",
	FlagSet: (func() *flag.FlagSet {
		fs := flag.NewFlagSet("run", flag.ExitOnError)
		fs.StringVar(&runArgs.configPath, "config", paths.DefaultChainConfigFile(), "chain config file")
		fs.StringVar(&runArgs.iface, "iface", "eth0", "interface identifier presented to the filters")
		fs.StringVar(&runArgs.dir, "dir", "tr", "direction, tr for receive or tx for send")
		fs.StringVar(&runArgs.logFile, "logfile", "", "set logfile path, empty logs to stderr only")
		fs.StringVar(&runArgs.logLevel, "loglevel", weftlog.InfoLevelStr, "set log level")
		fs.BoolVar(&runArgs.debug, "debug", false, "for debug")
		return fs
	})(),
	Exec: execRun,
}

func execRun(ctx context.Context, args []string) error {
	weftlog, err := weftlog.NewWeftlog("weftd run", runArgs.logLevel, runArgs.logFile, runArgs.debug)
	if err != nil {
		fmt.Printf("failed to initialize logger. because %v", err)
		return err
	}

	if runArgs.dir != "tr" && runArgs.dir != "tx" {
		return fmt.Errorf("unknown direction %q, want tr or tx", runArgs.dir)
	}

	spec, err := conf.NewSpec(runArgs.configPath, runArgs.logFile, runArgs.logLevel, weftlog).LoadSpec()
	if err != nil {
		weftlog.Logger.Warnf("failed to load chain config, because %v", err)
		return err
	}

	filters, err := spec.Build()
	if err != nil {
		weftlog.Logger.Warnf("failed to build filter chain, because %v", err)
		return err
	}

	chain := filter.NewChain(weftlog, filters...)
	ifc := filter.Interface(runArgs.iface)

	weftlog.Logger.Infof("running %d filters on %s, direction %s", len(filters), ifc, runArgs.dir)

	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for sc.Scan() {
		p := filter.Packet(sc.Bytes())

		if runArgs.dir == "tx" {
			p = chain.Send(p, ifc)
		} else {
			p = chain.Receive(p, ifc)
		}

		if p.IsAbsent() {
			continue
		}
		out.Write(p)
		out.WriteByte('\n')
	}

	return sc.Err()
}
