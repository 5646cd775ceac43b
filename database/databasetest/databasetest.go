// Package databasetest opens throwaway sqlite databases for tests.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"socialFeed/database"
)

// Open creates a migrated sqlite database inside t.TempDir and closes it when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db := database.NewDB(database.SQLite, filepath.Join(t.TempDir(), "feed.db"))
	require.NoError(t, database.Open(db, true))
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db.Gorm
}
