// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// openBrowser opens a local file or an URL in the system's default browser.
func openBrowser(target string) error {
	abs := target
	if !strings.Contains(target, "://") {
		var err error

		abs, err = filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", target, err)
		}
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", abs)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", abs)
	default:
		cmd = exec.Command("xdg-open", abs)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s: %w", abs, err)
	}

	return nil
}
