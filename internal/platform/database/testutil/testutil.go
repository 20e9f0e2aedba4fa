// Package testutil opens throwaway migrated databases for tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"projecthub/internal/platform/database"
)

// NewDB returns a migrated SQLite database in a temp dir behind a single connection.
func NewDB(t testing.TB) *database.DB {
	t.Helper()
	return open(t, 1)
}

// NewPooledDB is NewDB with up to conns connections, so concurrent writers contend on the
// database lock the way they do with a production pool.
func NewPooledDB(t testing.TB, conns int) *database.DB {
	t.Helper()
	return open(t, conns)
}

func open(t testing.TB, conns int) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := sql.Open(database.DriverSQLite, database.SQLiteDSN(path))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { sqlDB.Close() })

	db := database.New(sqlDB, database.DriverSQLite)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// SeedUser inserts an active user and returns its id.
func SeedUser(t testing.TB, db *database.DB, username string) string {
	t.Helper()

	id := "usr_" + uuid.New().String()
	now := time.Now().Unix()
	_, err := db.Exec(db.Rebind(`
		INSERT INTO users (id, username, email, password_hash, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		id, username, username+"@example.com", "x", true, now, now)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return id
}
