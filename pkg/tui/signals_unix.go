//go:build !windows

package tui

import (
	"os"
	"syscall"
)

var resizeSignal os.Signal = syscall.SIGWINCH
