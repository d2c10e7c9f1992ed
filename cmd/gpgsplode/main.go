// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for gpgsplode using the Cobra
// library. It defines the root command, the export/import/history
// subcommands, flags, and the main entry point for execution.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/gpgsplode/buildvars"
	"github.com/toeirei/gpgsplode/internal/apperr"
	"github.com/toeirei/gpgsplode/internal/config"
	"github.com/toeirei/gpgsplode/internal/db"
	"github.com/toeirei/gpgsplode/internal/gpg"
	"github.com/toeirei/gpgsplode/internal/i18n"
	"github.com/toeirei/gpgsplode/internal/logging"
)

var cfgFile string
var verbose bool
var appConfig config.Config

var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// main is the entry point of the application. Expected failures surface as
// apperr values: their message is printed plainly and the process exits 1.
// Anything else is a bug signal and gets a diagnostic prefix instead.
func main() {
	if err := rootCmd.Execute(); err != nil {
		if apperr.IsAppError(err) {
			fmt.Println(err.Error())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "gpgsplode: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates and configures a new root cobra command. Tests create
// fresh instances for isolated runs.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gpgsplode",
		Short: "Export/import GPG keyrings for backup/merge/sync.",
		Long: `gpgsplode backs up a GPG keyring into a plain-file directory tree:
one armored file per key, plus the ownertrust database and a version stamp.
Exports are idempotent, so the snapshot directory diffs cleanly between runs.

Exactly one gpgsplode run should use a snapshot directory at a time; the
tool does not lock the directory.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setupServices,
	}

	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newHistoryCmd())

	cmd.Version = buildvars.VersionOrDefault("dev")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is gpgsplode.yaml in the user config dir)")
	cmd.PersistentFlags().StringP("gnupg-home", "g", "", "location of the keyrings to use (your main keyrings are in ~/.gnupg)")
	cmd.PersistentFlags().StringP("directory", "d", "", "file system directory to use when exporting/importing")
	cmd.PersistentFlags().BoolP("include-public-keys", "p", true, "include public keys when exporting/importing")
	cmd.PersistentFlags().BoolP("include-secret-keys", "s", false, "include secret keys when exporting/importing")
	cmd.PersistentFlags().String("db-type", "sqlite", "audit database type (sqlite, mysql, postgres)")
	cmd.PersistentFlags().String("db-dsn", "./gpgsplode.db", "audit database connection string (DSN)")
	cmd.PersistentFlags().String("lang", "en", `output language ("en", "de")`)
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	return cmd
}

// setupServices loads the configuration and initializes i18n, logging and
// the audit database before any subcommand runs.
func setupServices(cmd *cobra.Command, args []string) error {
	appCfg, err := config.LoadConfig(cmd, map[string]any{
		"include_public_keys": true,
		"include_secret_keys": false,
		"database.type":       "sqlite",
		"database.dsn":        "./gpgsplode.db",
		"language":            "en",
	}, cfgFile)
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// First run, or the config file was deleted. Persist the defaults
			// so subsequent runs have a file to inspect; not fatal if it fails.
			if writeErr := config.WriteConfigFile(&appCfg, false); writeErr != nil {
				logging.Warnf("could not write default config file: %v", writeErr)
			}
		} else {
			return fmt.Errorf("error loading config: %w", err)
		}
	}
	appConfig = appCfg

	logging.SetDebug(verbose)
	i18n.Init(appConfig.Language)

	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}
	return nil
}

// requireGnupgHome validates the configured GNUPGHOME. Both export and import
// demand it, even though import does not touch the keyring yet.
func requireGnupgHome() error {
	if appConfig.GnupgHome == "" {
		return apperr.ConfigurationError{Reason: i18n.T("config.missing_gnupg_home")}
	}
	info, err := os.Stat(appConfig.GnupgHome)
	if err != nil || !info.IsDir() {
		return apperr.ConfigurationError{
			Reason: fmt.Sprintf("selected GNUPGHOME directory %q missing or not a directory", appConfig.GnupgHome),
		}
	}
	return nil
}

// setupGateway validates the gpg-facing configuration and returns a gateway
// bound to the configured GNUPGHOME.
func setupGateway() (*gpg.Gateway, error) {
	if err := requireGnupgHome(); err != nil {
		return nil, err
	}
	if appConfig.Directory == "" {
		return nil, apperr.ConfigurationError{Reason: i18n.T("config.missing_directory")}
	}
	if !gpg.Available() {
		return nil, apperr.ConfigurationError{Reason: "gpg binary not found in PATH"}
	}
	logging.Infof("%s", i18n.T("gnupg.using_home", appConfig.GnupgHome))
	return gpg.NewGateway(appConfig.GnupgHome), nil
}

// logAudit records a run in the export history. The snapshot, not the log,
// is the product: failures here are warnings, never fatal.
func logAudit(action, details string) {
	store := db.DefaultStore()
	if store == nil {
		return
	}
	if err := store.LogAction(action, details); err != nil {
		logging.Warnf("could not record audit entry: %v", err)
	}
}
