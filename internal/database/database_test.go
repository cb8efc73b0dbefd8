package database

import (
	"context"
	"path/filepath"
	"testing"

	"ega-bank-client/internal/config"
	"ega-bank-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_MigratesSessionTable(t *testing.T) {
	db := SetupTestDB(t)

	assert.True(t, db.Migrator().HasTable(&models.StoredSession{}))
	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestSeedAndCleanup(t *testing.T) {
	db := SetupTestDB(t)
	SeedSession(t, db, "ega_token", "abc")

	var count int64
	require.NoError(t, db.Model(&models.StoredSession{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	CleanupTestDB(t, db)
	require.NoError(t, db.Model(&models.StoredSession{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInitialize_SQLiteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	cfg := &config.Config{
		Session: config.SessionConfig{Backend: config.SessionBackendSQLite, SQLitePath: path},
	}

	db, err := Initialize(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
	assert.True(t, db.Migrator().HasTable("client_sessions"))
}

func TestInitialize_RejectsNonDatabaseBackend(t *testing.T) {
	cfg := &config.Config{
		Session: config.SessionConfig{Backend: config.SessionBackendRedis},
	}

	_, err := Initialize(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not use a database")
}
