// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package snapshot owns the on-disk snapshot tree: the version stamp, the
// per-keyring export files, the ownertrust file and the optional compressed
// archive. Exactly one run is expected to occupy a snapshot directory at a
// time; the single-writer contract is the caller's responsibility.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toeirei/gpgsplode/internal/apperr"
)

// FormatVersion is the snapshot format generation this build reads and
// writes. Any snapshot stamped with a different version is rejected.
const FormatVersion = "1.0"

// MetaFilename is the version stamp file at the snapshot root.
const MetaFilename = "gpgsplode_meta"

type meta struct {
	Version string `json:"version"`
}

// CheckMeta verifies that the snapshot directory's version stamp matches
// FormatVersion before anything destructive happens to it. An absent stamp is
// fine for a fresh export (requireExisting=false) but fatal for import
// (requireExisting=true).
func CheckMeta(dir string, requireExisting bool) error {
	path := filepath.Join(dir, MetaFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if requireExisting {
			return apperr.MissingSnapshotError{Path: path}
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var m meta
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("could not parse %s: %w", path, err)
	}
	if m.Version != FormatVersion {
		return apperr.VersionMismatchError{Dir: dir, Stored: m.Version, Current: FormatVersion}
	}
	return nil
}

// WriteMeta stamps the snapshot directory with the current format version,
// overwriting any previous stamp. The file is pretty-printed for humans.
func WriteMeta(dir string) error {
	data, err := json.MarshalIndent(meta{Version: FormatVersion}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, MetaFilename), append(data, '\n'), 0o600)
}
