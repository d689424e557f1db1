package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL flavour of the state database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// DB wraps the state database connection.
// Postgres connections keep the pgx pool so it can be closed with the handle.
type DB struct {
	sql     *sql.DB
	pool    *pgxpool.Pool
	dialect Dialect
}

// SQL returns the database/sql handle.
func (db *DB) SQL() *sql.DB {
	return db.sql
}

// Dialect returns the SQL dialect of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Open connects to the state database. URLs starting with postgres:// or
// postgresql:// use Postgres; anything else is a sqlite file path.
func Open(ctx context.Context, stateURL string) (*DB, error) {
	if isPostgresURL(stateURL) {
		return OpenPostgres(ctx, stateURL)
	}
	return OpenSQLite(ctx, strings.TrimPrefix(stateURL, "sqlite://"))
}

func isPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// OpenSQLite opens (creating if needed) a sqlite state file.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps pragmas and in-memory databases consistent.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	slog.Debug("state database opened", "dialect", DialectSQLite, "path", path)

	return &DB{sql: sqlDB, dialect: DialectSQLite}, nil
}

// OpenPostgres creates a new Postgres connection pool.
func OpenPostgres(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Debug("state database opened", "dialect", DialectPostgres)

	return &DB{sql: stdlib.OpenDBFromPool(pool), pool: pool, dialect: DialectPostgres}, nil
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.sql.PingContext(ctx)
}

// Close closes the database handle and, for Postgres, the pool.
func (db *DB) Close() {
	if err := db.sql.Close(); err != nil {
		slog.Warn("close state database", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
	slog.Debug("state database closed")
}
