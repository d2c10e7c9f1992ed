// Copyright (c) 2025 ToeiRei
// gpgsplode - GPG keyring backup tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db provides the export audit log. Runs of the export and import
// commands are recorded in a small Bun-backed table so `gpgsplode history`
// can show what happened to a snapshot over time. SQLite is the default
// backend; MySQL and Postgres work through the same DSN switch.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/toeirei/gpgsplode/internal/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver (registers "pgx")
	_ "modernc.org/sqlite"             // Pure Go SQLite driver
)

// Store records export runs for the history command.
type Store interface {
	LogAction(action, details string) error
	GetExportLog() ([]model.ExportLogEntry, error)
}

// store is the package-level default, set by InitDB.
var store Store

// sqlOpenFunc is a seam for tests to intercept database opening.
var sqlOpenFunc = sql.Open

// InitDB initializes the package-level store for the given dbType and DSN.
func InitDB(dbType, dsn string) error {
	s, err := NewStoreFromDSN(dbType, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	store = s
	return nil
}

// IsInitialized reports whether the package-level store has been set.
func IsInitialized() bool {
	return store != nil
}

// DefaultStore returns the package-level store, or nil before InitDB.
func DefaultStore() Store {
	return store
}

// SetDefaultStore overrides the package-level store; tests use this to
// inject fakes.
func SetDefaultStore(s Store) {
	store = s
}

// NewStoreFromDSN opens a sql.DB for the given DSN, ensures the schema, and
// returns a Store backed by a long-lived *bun.DB.
func NewStoreFromDSN(dbType, dsn string) (Store, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == "postgres" {
		driverName = "pgx"
	}
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory SQLite databases are per-connection; force a single open
	// connection so the schema stays visible. Tests rely on ":memory:".
	if dbType == "sqlite" && dsn == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	bdb := createBunDB(sqlDB, dbType)
	if err := createSchema(bdb); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &bunStore{db: bdb}, nil
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

func createSchema(bdb *bun.DB) error {
	_, err := bdb.NewCreateTable().
		Model((*exportLogModel)(nil)).
		IfNotExists().
		Exec(context.Background())
	return err
}

// exportLogModel maps the export_log table.
type exportLogModel struct {
	bun.BaseModel `bun:"table:export_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

type bunStore struct {
	db *bun.DB
}

// LogAction inserts an audit entry attributed to the current OS user.
func (s *bunStore) LogAction(action, details string) error {
	username := "unknown"
	if curUser, err := user.Current(); err == nil {
		// Windows reports DOMAIN\user; keep the user part.
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	entry := &exportLogModel{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Username:  username,
		Action:    action,
		Details:   details,
	}
	_, err := s.db.NewInsert().Model(entry).Exec(context.Background())
	return err
}

// GetExportLog returns all recorded runs, oldest first.
func (s *bunStore) GetExportLog() ([]model.ExportLogEntry, error) {
	var rows []exportLogModel
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(context.Background()); err != nil {
		return nil, err
	}
	entries := make([]model.ExportLogEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, model.ExportLogEntry{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Username:  r.Username,
			Action:    r.Action,
			Details:   r.Details,
		})
	}
	return entries, nil
}
