package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mtlprog/momentum/internal/database"
	"github.com/mtlprog/momentum/internal/domain"
)

const stateTable = "client_state"

// StateRepository is a durable key/value store for client state
// (applied filters, form drafts). Values are opaque JSON documents.
type StateRepository struct {
	db   *sql.DB
	psql sq.StatementBuilderType
}

// NewStateRepository creates a new StateRepository.
func NewStateRepository(db *database.DB) *StateRepository {
	return &StateRepository{
		db:   db.SQL(),
		psql: builderFor(db.Dialect()),
	}
}

// Get returns the value stored under key, or domain.ErrStateNotFound.
func (r *StateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := r.psql.
		Select("value").
		From(stateTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Get query for key %s: %w", key, err)
	}

	var value string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("query state %s: %w", key, err)
	}

	return []byte(value), nil
}

// Put stores value under key, replacing any previous value.
func (r *StateRepository) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := r.psql.
		Insert(stateTable).
		Columns("key", "value").
		Values(key, string(value)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Put query for key %s: %w", key, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert state %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *StateRepository) Delete(ctx context.Context, key string) error {
	query, args, err := r.psql.
		Delete(stateTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for key %s: %w", key, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}

// Keys lists all stored keys in lexical order.
func (r *StateRepository) Keys(ctx context.Context) ([]string, error) {
	query, args, err := r.psql.
		Select("key").
		From(stateTable).
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Keys query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query state keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan state key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return keys, nil
}
