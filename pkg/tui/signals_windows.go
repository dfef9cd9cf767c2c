//go:build windows

package tui

import "os"

// Windows has no resize signal
var resizeSignal os.Signal
