// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/voteledger/roundvote/cliparse"
)

// DriverName maps a configured database type to its database/sql driver
func DriverName(databaseType string) (string, error) {
	switch databaseType {
	case cliparse.DatabaseSQLite:
		return "sqlite", nil
	case cliparse.DatabasePostgres:
		return "postgres", nil
	case cliparse.DatabasePgx:
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported database type %q", databaseType)
}

// IsPostgres reports whether the database type talks to a Postgres server
func IsPostgres(databaseType string) bool {
	return databaseType == cliparse.DatabasePostgres || databaseType == cliparse.DatabasePgx
}

// Open returns a pooled, verified connection for the configured database.
func Open(ctx context.Context, cfg cliparse.Config) (*sql.DB, error) {
	driver, err := DriverName(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DatabaseURL
	if driver == "sqlite" {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows a single writer; one connection serializes
		// transactions instead of surfacing SQLITE_BUSY to callers.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxOpenConns)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// sqliteDSN turns on foreign keys and a busy timeout unless the caller
// already chose pragmas.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
