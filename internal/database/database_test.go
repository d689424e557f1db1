package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/momentum/internal/database"
)

func TestSetup_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := database.Setup(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, database.DialectSQLite, db.Dialect())
	require.NoError(t, db.Ping(ctx))

	var count int
	err = db.SQL().QueryRowContext(ctx, "SELECT COUNT(*) FROM client_state").Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSetup_SQLiteSchemeAndRerun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := database.Setup(ctx, "sqlite://"+path)
	require.NoError(t, err)
	db.Close()

	// Migrations are idempotent across reopen.
	db, err = database.Setup(ctx, path)
	require.NoError(t, err)
	db.Close()
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := database.OpenSQLite(context.Background(), "")
	assert.Error(t, err)
}
