package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// RunMigrations applies all pending state schema migrations.
func RunMigrations(ctx context.Context, db *DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(db.dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.sql, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db.sql)
	if err != nil {
		return fmt.Errorf("get migration version: %w", err)
	}

	slog.Debug("migrations completed", "version", version)

	return nil
}

// Setup opens the state database and brings its schema up to date.
func Setup(ctx context.Context, stateURL string) (*DB, error) {
	db, err := Open(ctx, stateURL)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
