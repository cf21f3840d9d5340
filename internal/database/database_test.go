package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		Env:        "test",
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close(context.Background())

	assert.Equal(t, "sqlite", store.Driver())
	require.NoError(t, store.Ping(context.Background()))

	u := &models.User{Name: "John", Email: "john@example.com", Password: "hash"}
	require.NoError(t, store.Users().Create(context.Background(), u))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is ignored")

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Contains(t, buf.String(), "GORM query error")

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Empty(t, buf.String())
}
