// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package gpg is the gateway to the external gpg binary. Every operation
// builds an explicit argument vector (no shell interpretation anywhere, so
// key ids and descriptions can't inject anything), captures both output
// streams, and maps a nonzero exit status to apperr.ExternalToolError. The
// keyring home directory is threaded into each invocation's environment
// rather than set process-globally.
package gpg

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/toeirei/gpgsplode/internal/apperr"
	"github.com/toeirei/gpgsplode/internal/logging"
	"github.com/toeirei/gpgsplode/internal/model"
)

// RunnerFunc executes one argument vector with the given extra environment
// and returns captured stdout/stderr plus the process exit code. A non-nil
// error means the process could not be run at all.
type RunnerFunc func(env []string, argv []string) (stdout, stderr string, exitCode int, err error)

// Gateway invokes gpg. One instance is constructed per run, bound to a
// GNUPGHOME directory.
type Gateway struct {
	binary     string
	home       string
	passphrase string
	run        RunnerFunc
}

// NewGateway returns a Gateway bound to the given GNUPGHOME directory.
func NewGateway(home string) *Gateway {
	return &Gateway{binary: "gpg", home: home, run: runCommand}
}

// NewGatewayWithRunner returns a Gateway that executes commands through the
// provided runner. Tests use this to stub the external tool.
func NewGatewayWithRunner(home string, run RunnerFunc) *Gateway {
	return &Gateway{binary: "gpg", home: home, run: run}
}

// SetPassphrase supplies a passphrase for secret-key exports. When set, the
// export runs with loopback pinentry instead of gpg's interactive agent.
func (g *Gateway) SetPassphrase(passphrase string) {
	g.passphrase = passphrase
}

// Available reports whether the gpg binary can be found in PATH.
func Available() bool {
	_, err := exec.LookPath("gpg")
	return err == nil
}

// ListKeys runs the listing operation for the given key kind with the long
// key id display format and returns raw stdout as lines.
func (g *Gateway) ListKeys(kind model.KeyKind) ([]string, error) {
	out, err := g.invoke(kind.ListOption(), "--keyid-format", "long")
	if err != nil {
		return nil, err
	}
	return strings.Split(out, "\n"), nil
}

// ExportArmored runs the armored export operation for a single key id and
// returns the armored text trimmed of surrounding whitespace.
func (g *Gateway) ExportArmored(kind model.KeyKind, keyID string) (string, error) {
	opt, err := kind.ExportOption()
	if err != nil {
		return "", err
	}
	args := []string{"--armor", opt, keyID}
	if kind == model.KindSecret && g.passphrase != "" {
		args = append([]string{"--pinentry-mode", "loopback", "--passphrase", g.passphrase}, args...)
	}
	return g.invoke(args...)
}

// ExportOwnertrust runs the trust database export and returns raw stdout.
func (g *Gateway) ExportOwnertrust() (string, error) {
	return g.invoke("--export-ownertrust")
}

// redactArgv masks the token following --passphrase so debug traces never
// leak the secret into terminal scrollback or captured logs.
func redactArgv(argv []string) []string {
	out := make([]string, len(argv))
	copy(out, argv)
	for i, arg := range out {
		if arg == "--passphrase" && i+1 < len(out) {
			out[i+1] = "***"
		}
	}
	return out
}

// invoke runs one gpg invocation. Stdout of a failed invocation is
// discarded; there are no partial results.
func (g *Gateway) invoke(args ...string) (string, error) {
	argv := append([]string{g.binary}, args...)
	logging.Debugf("gpg: running %q", strings.Join(redactArgv(argv), " "))

	env := append(os.Environ(), "GNUPGHOME="+g.home)
	stdout, stderr, code, err := g.run(env, argv)
	if err != nil {
		return "", apperr.ExternalToolError{Argv: redactArgv(argv), ExitCode: -1, Stderr: err.Error()}
	}
	if code != 0 {
		return "", apperr.ExternalToolError{Argv: redactArgv(argv), ExitCode: code, Stderr: strings.TrimSpace(stderr)}
	}
	return strings.TrimSpace(stdout), nil
}

// runCommand is the production RunnerFunc. It blocks until the subprocess
// exits; there is deliberately no timeout, a hung gpg hangs the run.
func runCommand(env []string, argv []string) (string, string, int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.ExitCode(), nil
		}
		return "", "", -1, err
	}
	return stdout.String(), stderr.String(), 0, nil
}
