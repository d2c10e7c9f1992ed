// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

package snapshot

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toeirei/gpgsplode/internal/apperr"
	"github.com/toeirei/gpgsplode/internal/gpg"
	"github.com/toeirei/gpgsplode/internal/i18n"
	"github.com/toeirei/gpgsplode/internal/logging"
	"github.com/toeirei/gpgsplode/internal/model"
)

// OwnertrustFilename is the trust database export at the snapshot root.
const OwnertrustFilename = "ownertrust"

// Exporter sequences a full snapshot export. Each step is a hard dependency
// on the previous one succeeding; any failure aborts the run with no
// rollback, leaving already-written files in place.
type Exporter struct {
	Gateway       *gpg.Gateway
	Dir           string
	IncludePublic bool
	IncludeSecret bool
	// ArchivePath, when non-empty, additionally writes a zstd-compressed tar
	// of the finished snapshot tree.
	ArchivePath string
}

// Run exports the configured keyrings and the ownertrust database into the
// snapshot directory. Re-running against an unchanged keyring produces
// byte-identical files.
func (e *Exporter) Run() error {
	logging.Infof("%s", i18n.T("export.start"))

	if err := ensureDir(e.Dir); err != nil {
		return err
	}
	// No stamp is required yet, but an existing incompatible one must not be
	// silently clobbered.
	if err := CheckMeta(e.Dir, false); err != nil {
		return err
	}
	// Stamp before writing key data so a crash mid-export still leaves a
	// directory whose version is trustworthy for a retry.
	if err := WriteMeta(e.Dir); err != nil {
		return err
	}

	for _, kind := range e.kinds() {
		ring, err := gpg.LoadKeyring(e.Gateway, kind)
		if err != nil {
			return err
		}
		logging.Infof("%s", i18n.T("export.keyring", ring.Name))

		ringDir := filepath.Join(e.Dir, ring.Name)
		if err := ensureDir(ringDir); err != nil {
			return err
		}
		for _, rec := range ring.Records {
			logging.Infof("%s", i18n.T("export.key", rec.ExportFilename()))
			text, err := rec.ExportText(e.Gateway)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(ringDir, rec.ExportFilename()), []byte(text), 0o600); err != nil {
				return err
			}
		}
	}

	logging.Infof("%s", i18n.T("export.ownertrust"))
	raw, err := e.Gateway.ExportOwnertrust()
	if err != nil {
		return err
	}
	trust := model.NormalizeOwnertrust(raw)
	if err := os.WriteFile(filepath.Join(e.Dir, OwnertrustFilename), []byte(trust), 0o600); err != nil {
		return err
	}

	if e.ArchivePath != "" {
		written, err := WriteArchive(e.Dir, e.ArchivePath)
		if err != nil {
			return err
		}
		logging.Infof("%s", i18n.T("export.archive", written))
	}

	logging.Infof("%s", i18n.T("export.done"))
	return nil
}

// kinds returns the keyring scopes selected for this run, public first.
func (e *Exporter) kinds() []model.KeyKind {
	var kinds []model.KeyKind
	if e.IncludePublic {
		kinds = append(kinds, model.KindPublic)
	}
	if e.IncludeSecret {
		kinds = append(kinds, model.KindSecret)
	}
	return kinds
}

// Import verifies that an existing snapshot is compatible with this build.
// That is the whole of the current import behavior: feeding key material back
// into gpg is intentionally not implemented yet, and the compatibility check
// must not be mistaken for it.
func Import(dir string) error {
	return CheckMeta(dir, true)
}

// ensureDir creates path as a directory if absent. A non-directory already
// occupying the path is a hard failure, not something to overwrite.
func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return apperr.PathConflictError{Path: path}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.MkdirAll(path, 0o700)
}
