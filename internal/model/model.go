// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model contains the plain data types gpgsplode works with: key
// records parsed from gpg's listing output, the keyrings that group them,
// and the entries of the export audit log.
package model

import (
	"sort"
	"strings"

	"github.com/toeirei/gpgsplode/internal/apperr"
)

// KeyKind is the kind token of a listing group ("pub" or "sec"). Parsing
// keeps whatever token gpg emitted; anything other than the two known kinds
// is rejected the moment an export option is needed for it, never skipped.
type KeyKind string

const (
	// KindPublic is a public key ("pub" listing groups).
	KindPublic KeyKind = "pub"
	// KindSecret is a secret key ("sec" listing groups).
	KindSecret KeyKind = "sec"
)

// ListOption returns the gpg flag that lists keys of this kind.
func (k KeyKind) ListOption() string {
	if k == KindSecret {
		return "--list-secret-keys"
	}
	return "--list-keys"
}

// ExportOption maps the kind to gpg's export flag. An unrecognized kind is a
// fatal data error.
func (k KeyKind) ExportOption() (string, error) {
	switch k {
	case KindPublic:
		return "--export", nil
	case KindSecret:
		return "--export-secret-keys", nil
	}
	return "", apperr.UnsupportedKeyKindError{Kind: string(k)}
}

// RingName returns the on-disk subdirectory name for keyrings of this kind.
func (k KeyKind) RingName() string {
	if k == KindSecret {
		return "secring"
	}
	return "pubring"
}

// Armorer produces the armored export text for a single key. The gpg gateway
// implements it; tests substitute a fake.
type Armorer interface {
	ExportArmored(kind KeyKind, keyID string) (string, error)
}

// KeyRecord is one exportable key from a listing. Description holds the raw
// listing lines of the group, verbatim, because they are re-embedded in the
// export file.
type KeyRecord struct {
	Kind        KeyKind
	KeyID       string
	Description []string

	armor   string
	armored bool
}

// Armor returns the armored export text for the record, invoking the armorer
// at most once per record lifetime. Execution is single-threaded, so the
// memoization needs no locking.
func (r *KeyRecord) Armor(a Armorer) (string, error) {
	if !r.armored {
		text, err := a.ExportArmored(r.Kind, r.KeyID)
		if err != nil {
			return "", err
		}
		r.armor = text
		r.armored = true
	}
	return r.armor, nil
}

// ExportFilename returns the stable on-disk name for the record,
// `<keyid>.<kind>.asc`.
func (r *KeyRecord) ExportFilename() string {
	return r.KeyID + "." + string(r.Kind) + ".asc"
}

// ExportText renders the full export file body: the description lines joined
// by newline, a blank line, the armored block, and a trailing newline. The
// framing is fixed; a reader of the snapshot recovers the description as the
// file's first block.
func (r *KeyRecord) ExportText(a Armorer) (string, error) {
	armor, err := r.Armor(a)
	if err != nil {
		return "", err
	}
	return strings.Join(r.Description, "\n") + "\n\n" + armor + "\n", nil
}

// Keyring is one logical keyring, in the order gpg emitted its keys. It is
// built once per run and never mutated afterwards.
type Keyring struct {
	Name    string
	Records []*KeyRecord
}

// NormalizeOwnertrust turns raw `--export-ownertrust` output into the
// deterministic form stored in a snapshot: comment lines (leading '#') and
// blank lines are dropped, the rest sorted lexicographically and joined by
// newline with no trailing blank line. gpg does not guarantee a stable trust
// database order between exports; sorting is what makes re-exports
// byte-identical and diff-friendly.
func NormalizeOwnertrust(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// ExportLogEntry is one recorded run in the export audit history.
type ExportLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}
