package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"projecthub/internal/platform/database"
	"projecthub/internal/platform/database/testutil"
)

func TestRebind(t *testing.T) {
	pg := database.New(nil, database.DriverPostgres)
	require.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.Rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := database.New(nil, database.DriverSQLite)
	require.Equal(t, "SELECT * FROM t WHERE a = ?", lite.Rebind("SELECT * FROM t WHERE a = ?"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, database.Migrate(context.Background(), db))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestIsUniqueViolation(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, "alice")

	_, err := db.Exec(`INSERT INTO users (id, username, email, password_hash, is_active, created_at, updated_at)
		VALUES ('usr_other', 'alice', 'other@example.com', 'x', 1, 0, 0)`)
	require.Error(t, err)
	require.True(t, database.IsUniqueViolation(err))

	require.False(t, database.IsUniqueViolation(nil))
	require.False(t, database.IsUniqueViolation(context.Canceled))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := db.Exec(`INSERT INTO memberships (id, user_id, organization_id, role, created_at)
		VALUES ('mem_1', 'usr_missing', 'org_missing', 'member', 0)`)
	require.Error(t, err)
	require.False(t, database.IsUniqueViolation(err))
}

func TestSQLiteDSNAddsMissingParams(t *testing.T) {
	require.Equal(t,
		"./data.db?_foreign_keys=1&_busy_timeout=5000&_txlock=immediate",
		database.SQLiteDSN("./data.db"))
	require.Equal(t,
		"./data.db?_busy_timeout=100&_foreign_keys=1&_txlock=immediate",
		database.SQLiteDSN("./data.db?_busy_timeout=100"))
}
