// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package apperr defines the user-facing failure taxonomy. Every error here
// satisfies the AppError marker interface; the CLI catches that interface
// uniformly, prints the message and exits non-zero. Anything that does not
// implement AppError is treated as a programming bug and propagates with a
// diagnostic instead.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// AppError marks an error as an expected, user-facing application failure.
type AppError interface {
	error
	appError()
}

// IsAppError reports whether err (or anything it wraps) is an AppError.
func IsAppError(err error) bool {
	var ae AppError
	return errors.As(err, &ae)
}

// ConfigurationError reports bad or missing CLI/config input.
type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError) Error() string { return e.Reason }
func (ConfigurationError) appError()       {}

// FormatError reports external tool output that did not match the expected
// listing shape.
type FormatError struct {
	Reason string
}

func (e FormatError) Error() string { return e.Reason }
func (FormatError) appError()       {}

// UnsupportedKeyKindError reports a listing entry whose kind token is neither
// a public nor a secret key.
type UnsupportedKeyKindError struct {
	Kind string
}

func (e UnsupportedKeyKindError) Error() string {
	return fmt.Sprintf("cannot export key of unknown kind %q", e.Kind)
}
func (UnsupportedKeyKindError) appError() {}

// ExternalToolError reports a nonzero exit from an external tool invocation.
// Argv is the argument vector that was run, with any secret tokens redacted.
type ExternalToolError struct {
	Argv     []string
	ExitCode int
	Stderr   string
}

func (e ExternalToolError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", strings.Join(e.Argv, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}
func (ExternalToolError) appError() {}

// PathConflictError reports a path that should be a directory but is occupied
// by something else.
type PathConflictError struct {
	Path string
}

func (e PathConflictError) Error() string {
	return fmt.Sprintf("cannot create directory %q, as there is something in the way", e.Path)
}
func (PathConflictError) appError() {}

// MissingSnapshotError reports an absent snapshot metadata file where one was
// required.
type MissingSnapshotError struct {
	Path string
}

func (e MissingSnapshotError) Error() string {
	return fmt.Sprintf("could not read %s", e.Path)
}
func (MissingSnapshotError) appError() {}

// VersionMismatchError reports a snapshot stamped with an incompatible format
// version. It is fatal; the snapshot belongs to a different generation of the
// tool.
type VersionMismatchError struct {
	Dir     string
	Stored  string
	Current string
}

func (e VersionMismatchError) Error() string {
	return fmt.Sprintf("snapshot in %s claims version %s, but we are version %s", e.Dir, e.Stored, e.Current)
}
func (VersionMismatchError) appError() {}
