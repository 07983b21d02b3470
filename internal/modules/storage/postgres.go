package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository connects to databaseURL and creates the state table.
func NewPostgresRepository(databaseURL string) (Repository, error) {
	if databaseURL == "" {
		return nil, errors.New("storage: DATABASE_URL is required for the postgres driver")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping postgres: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS pos_state (
		  key        TEXT PRIMARY KEY,
		  value      TEXT NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate postgres: %w", err)
	}
	return &postgresRepo{db: db}, nil
}

func (r *postgresRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM pos_state WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Save upserts every entry inside a single transaction.
func (r *postgresRepo) Save(ctx context.Context, entries ...Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pos_state (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
			e.Key, string(e.Value))
		if err != nil {
			return fmt.Errorf("upsert %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) Close() error { return r.db.Close() }
