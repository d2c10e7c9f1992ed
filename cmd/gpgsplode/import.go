// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/gpgsplode/internal/apperr"
	"github.com/toeirei/gpgsplode/internal/i18n"
	"github.com/toeirei/gpgsplode/internal/logging"
	"github.com/toeirei/gpgsplode/internal/snapshot"
)

// newImportCmd builds the 'import' subcommand. Import currently only checks
// that the snapshot is compatible with this build; it deliberately does not
// feed key material back into gpg yet.
func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Check a file system snapshot for import into GPG's keyrings",
		Long: `Verifies that the snapshot directory was written by a compatible version
of gpgsplode. A snapshot with a missing or mismatched version stamp is
rejected.

Importing the key material itself is not implemented yet: this command
changes nothing in your keyring.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireGnupgHome(); err != nil {
				return err
			}
			if appConfig.Directory == "" {
				return apperr.ConfigurationError{Reason: i18n.T("config.missing_directory")}
			}
			if err := snapshot.Import(appConfig.Directory); err != nil {
				return err
			}
			logging.Infof("%s", i18n.T("import.checked", appConfig.Directory, snapshot.FormatVersion))
			logAudit("IMPORT_CHECK", fmt.Sprintf("directory: %s", appConfig.Directory))
			return nil
		},
	}
}
