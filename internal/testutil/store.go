// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"devconnector/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens a migrated, private in-memory SQLite database. Access
// goes through a single connection, so concurrent writers queue.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Shared-cache SQLite rejects concurrent writers instead of waiting.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// NewStore returns a GormStore over a fresh in-memory database.
func NewStore(t *testing.T) *repository.GormStore {
	t.Helper()
	store := repository.NewGormStore(OpenSQLite(t))
	require.NoError(t, store.Ping(context.Background()))
	return store
}
