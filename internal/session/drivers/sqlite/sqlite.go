// Package sqlite is the durable session.KV used by the CLI. The session
// survives process restarts in a single file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type KV struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn. Use ":memory:" in tests.
func Open(dsn string) (*KV, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &KV{db: db}, nil
}

// DSN builds a file DSN with the pragmas the KV expects.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

func (k *KV) Close() error { return k.db.Close() }

func (k *KV) Ping(ctx context.Context) error { return k.db.PingContext(ctx) }

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := k.db.QueryRowContext(ctx, `SELECT value FROM session_kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}

// GetMany reads the keys with one SELECT, so a concurrent SetMany is seen
// whole or not at all.
func (k *KV) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	placeholders, args := inList(keys)
	rows, err := k.db.QueryContext(ctx, `SELECT key, value FROM session_kv WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("get many: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("get many: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get many: %w", err)
	}
	return out, nil
}

func (k *KV) SetMany(ctx context.Context, entries map[string]string) error {
	return k.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		for key, value := range entries {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO session_kv (key, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				key, value, now,
			)
			if err != nil {
				return fmt.Errorf("set %q: %w", key, err)
			}
		}
		return nil
	})
}

func (k *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders, args := inList(keys)
	if _, err := k.db.ExecContext(ctx, `DELETE FROM session_kv WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func inList(keys []string) (string, []any) {
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(keys)), ","), args
}

// withTx executes fn within a transaction, automatically handling commit/rollback.
func (k *KV) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := k.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
