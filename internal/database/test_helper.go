package database

import (
	"testing"

	"ega-bank-client/internal/models"
)

// SetupTestDB returns a migrated in-memory sqlite database
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// CleanupTestDB empties the session table
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	if err := db.Exec("DELETE FROM client_sessions").Error; err != nil {
		t.Logf("failed to cleanup table client_sessions: %v", err)
	}
}

// SeedSession writes a session row directly, bypassing repositories
func SeedSession(t *testing.T, db *DB, key, token string) *models.StoredSession {
	t.Helper()

	session := &models.StoredSession{Key: key, Token: token}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	return session
}
