// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the application configuration with Viper. Precedence,
// highest first: command-line flags, GPGSPLODE_* environment variables, a
// YAML config file (explicit --config path, then user and system config
// dirs, then the working directory), built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds everything a run needs. GnupgHome and Directory are required
// for the export/import commands; validation happens there so `history` and
// `--help` work without them.
type Config struct {
	GnupgHome         string `mapstructure:"gnupg_home" yaml:"gnupg_home"`
	Directory         string `mapstructure:"directory" yaml:"directory"`
	IncludePublicKeys bool   `mapstructure:"include_public_keys" yaml:"include_public_keys"`
	IncludeSecretKeys bool   `mapstructure:"include_secret_keys" yaml:"include_secret_keys"`
	Database          struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
}

// flagBindings maps config keys to the CLI flags that override them.
var flagBindings = map[string]string{
	"gnupg_home":          "gnupg-home",
	"directory":           "directory",
	"include_public_keys": "include-public-keys",
	"include_secret_keys": "include-secret-keys",
	"database.type":       "db-type",
	"database.dsn":        "db-dsn",
	"language":            "lang",
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Gpgsplode")
		default: // Linux, macOS, etc.
			configDir = "/etc/gpgsplode"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "gpgsplode")
	}

	return filepath.Join(configDir, "gpgsplode.yaml"), nil
}

// LoadConfig builds a Config from defaults, config file, environment and the
// command's flags. A viper.ConfigFileNotFoundError is returned as-is so
// callers can treat a missing file as a normal first run.
func LoadConfig(cmd *cobra.Command, defaults map[string]any, explicitPath string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("gpgsplode")
	v.SetConfigType("yaml")
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	}
	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// Not-found is fine; defaults, env and flags still apply. The error is
	// handed back anyway so callers can decide to write a default file.
	readErr := v.ReadInConfig()
	if readErr != nil {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
			return c, readErr
		}
	}

	applyEnvAndFlags(v, cmd)
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, readErr
}

func applyEnvAndFlags(v *viper.Viper, cmd *cobra.Command) {
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("gpgsplode")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, flagName := range flagBindings {
		if f := cmd.Flags().Lookup(flagName); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// WriteConfigFile persists the configuration as YAML to the user (or system)
// config path, creating the directory if needed.
func WriteConfigFile(c *Config, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the config may name private keyring locations.
	return os.WriteFile(path, data, 0600)
}
