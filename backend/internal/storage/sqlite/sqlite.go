// Package sqlite is the single-file kv backend, the closest thing to a
// browser's local storage on a server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/apexcharge/paddock/backend/internal/storage/kv"
	"github.com/apexcharge/paddock/backend/internal/storage/sqlite/migrations"
	_ "github.com/mattn/go-sqlite3"
)

var _ kv.Backend = (*Backend)(nil)
var _ kv.Batcher = (*Backend)(nil)

// OpenConnection opens path (or ":memory:") with the PRAGMAs the store relies on.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return db, nil
}

type Backend struct {
	db *sql.DB
}

// New opens the database file and migrates it to the latest schema.
func New(path string) (*Backend, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv_records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

const upsert = `
	INSERT INTO kv_records (key, value, updated_at)
	VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	if _, err := b.db.ExecContext(ctx, upsert, key, string(value)); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (b *Backend) PutBatch(ctx context.Context, values map[string][]byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, upsert, key, string(value)); err != nil {
			return fmt.Errorf("put %q: %w", key, err)
		}
	}
	return tx.Commit()
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM kv_records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key FROM kv_records ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (b *Backend) Close() error {
	return b.db.Close()
}
