//go:build windows

package main

import (
	"os/exec"
)

func configureDaemonProc(cmd *exec.Cmd) {
	// Windows has no Setsid; the started process is already detached
	// enough for our use case.
	_ = cmd
}
