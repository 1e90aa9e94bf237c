package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&mode))
	assert.Equal(t, "wal", mode)

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpenSQLite_BadPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	assert.Error(t, err)
}
