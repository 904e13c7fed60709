package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "estatehub.db")
	db, err := Open("sqlite", dsn, zap.NewNop())
	require.NoError(t, err)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	require.NoError(t, Close(db))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "root@/estatehub", nil)
	assert.Error(t, err)
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := Open("sqlite", ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, db.Exec("CREATE TABLE listings (id integer primary key)").Error)
	var n int64
	require.NoError(t, db.Table("listings").Count(&n).Error)
	assert.Zero(t, n)

	assert.True(t, inMemory("file::memory:?cache=shared"))
	assert.True(t, inMemory("file:test.db?mode=memory"))
	assert.False(t, inMemory("/var/lib/estatehub.db"))
}
