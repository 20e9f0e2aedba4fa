package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"projecthub/internal/platform/config"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB is a *sql.DB that knows which dialect it speaks.
type DB struct {
	*sql.DB
	Driver string
}

func New(db *sql.DB, driver string) *DB {
	return &DB{DB: db, Driver: driver}
}

// Open connects using cfg, retrying the initial ping with exponential backoff until
// cfg.ConnectTimeout elapses.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var dsn string
	switch driver {
	case DriverSQLite:
		if err := ensureDir(cfg.DSN); err != nil {
			return nil, err
		}
		dsn = SQLiteDSN(cfg.DSN)
	case DriverPostgres:
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = cfg.ConnectTimeout

	err = backoff.RetryNotify(db.Ping, bo, func(err error, next time.Duration) {
		log.Warn().Err(err).Str("driver", driver).Dur("retry_in", next).Msg("database not reachable, retrying")
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	return New(db, driver), nil
}

// ensureDir creates the parent directory of a file-backed sqlite DSN.
func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	return nil
}

// SQLiteDSN enables foreign keys, waits on locks instead of failing, and starts write
// transactions with BEGIN IMMEDIATE so concurrent writers serialize cleanly.
func SQLiteDSN(path string) string {
	path = strings.TrimPrefix(path, "file:")
	params := []string{"_foreign_keys=1", "_busy_timeout=5000", "_txlock=immediate"}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	var missing []string
	for _, p := range params {
		key := p[:strings.Index(p, "=")]
		if !strings.Contains(path, key+"=") {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return path
	}
	return path + sep + strings.Join(missing, "&")
}

// Rebind rewrites ? placeholders to $1..$n for postgres.
func (db *DB) Rebind(query string) string {
	if db.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BeginTx starts a transaction; callers defer Rollback and Commit on success.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.DB.BeginTx(ctx, nil)
}

// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
