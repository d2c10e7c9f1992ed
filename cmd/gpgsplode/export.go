// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toeirei/gpgsplode/internal/i18n"
	"github.com/toeirei/gpgsplode/internal/snapshot"
)

// newExportCmd builds the 'export' subcommand.
func newExportCmd() *cobra.Command {
	var archivePath string
	var askPassphrase bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export keys from GPG's keyrings to a file system directory",
		Long: `Exports each key of the selected keyrings as an armored file under the
snapshot directory, stamps the directory with the snapshot format version,
and writes a normalized copy of the ownertrust database.

Public keys are included by default; secret keys only with
--include-secret-keys. Re-running export against an unchanged keyring
produces byte-identical files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := setupGateway()
			if err != nil {
				return err
			}

			if askPassphrase {
				fmt.Fprint(os.Stderr, i18n.T("prompt.passphrase"))
				passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("could not read passphrase: %w", err)
				}
				gateway.SetPassphrase(string(passphrase))
			}

			exporter := &snapshot.Exporter{
				Gateway:       gateway,
				Dir:           appConfig.Directory,
				IncludePublic: appConfig.IncludePublicKeys,
				IncludeSecret: appConfig.IncludeSecretKeys,
				ArchivePath:   archivePath,
			}
			if err := exporter.Run(); err != nil {
				return err
			}

			logAudit("EXPORT", fmt.Sprintf("directory: %s, public: %t, secret: %t",
				appConfig.Directory, appConfig.IncludePublicKeys, appConfig.IncludeSecretKeys))
			return nil
		},
	}

	cmd.Flags().StringVar(&archivePath, "archive", "", "additionally write a zstd-compressed tar of the snapshot to this path")
	cmd.Flags().BoolVar(&askPassphrase, "ask-passphrase", false, "prompt for a passphrase and export secret keys with loopback pinentry")

	return cmd
}
