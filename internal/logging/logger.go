// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging provides the application logger. It wraps charmbracelet/log
// behind a small set of formatted helpers so callers don't depend on the
// logging backend directly.
package logging

import (
	"os"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Callers should use the helper functions
// below for compatibility with existing calls.
var L = clog.New(os.Stderr)

// SetDebug enables or disables debug-level output.
func SetDebug(enabled bool) {
	if enabled {
		L.SetLevel(clog.DebugLevel)
	} else {
		L.SetLevel(clog.InfoLevel)
	}
}

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...any) {
	L.Debugf(format, v...)
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...any) {
	L.Infof(format, v...)
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...any) {
	L.Warnf(format, v...)
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...any) {
	L.Errorf(format, v...)
}
