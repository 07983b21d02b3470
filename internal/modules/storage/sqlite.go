package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pos_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const sqliteUpsert = `
INSERT INTO pos_state (key, value, updated_at)
VALUES (:key, :value, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// sqliteBusyTimeout makes a locked database wait instead of failing with
// SQLITE_BUSY when the API and posctl share one file.
const sqliteBusyTimeout = "_busy_timeout=5000"

// sqliteDSN adds the busy timeout, and WAL journaling for file databases,
// unless the caller already set them.
func sqliteDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "_busy_timeout") {
		params = append(params, sqliteBusyTimeout)
	}
	if !strings.Contains(dsn, ":memory:") && !strings.Contains(dsn, "_journal_mode") {
		params = append(params, "_journal_mode=WAL")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

type stateRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

type sqliteRepo struct{ db *sqlx.DB }

// NewSQLiteRepository opens (and migrates) the sqlite database at dsn.
// ":memory:" is accepted; the pool is pinned to one connection so the
// in-memory database is shared by every query.
func NewSQLiteRepository(dsn string) (Repository, error) {
	if dsn == "" {
		return nil, errors.New("storage: sqlite dsn is required")
	}
	db, err := sqlx.Open("sqlite3", sqliteDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate sqlite: %w", err)
	}
	return &sqliteRepo{db: db}, nil
}

func (r *sqliteRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM pos_state WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (r *sqliteRepo) Save(ctx context.Context, entries ...Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.NamedExecContext(ctx, sqliteUpsert, stateRow{Key: e.Key, Value: string(e.Value)}); err != nil {
			return fmt.Errorf("upsert %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

func (r *sqliteRepo) Close() error { return r.db.Close() }
