// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// chain config json listing the node's packet filters in order.
func DefaultChainConfigFile() string {
	switch runtime.GOOS {
	case "freebsd", "openbsd":
		return "/usr/local/etc/weft/chain.json"
	default:
		return "/etc/weft/chain.json"
	}
}

func DefaultWeftdLogFile() string {
	switch runtime.GOOS {
	case "darwin":
		return "/Library/Logs/weft/weftd.log"
	default:
		return "/var/log/weft/weftd.log"
	}
}

func MkConfigDir(dirPath string) error {
	return os.MkdirAll(filepath.Clean(dirPath), 0700)
}
