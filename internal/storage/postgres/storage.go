// Package postgres stores key-value entries in a PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage is a repository.KeyValueStore backed by the kv_store table.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New connects to dsn and ensures the schema exists.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS kv_store (
            key TEXT PRIMARY KEY,
            value BYTEA NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_kv_store_key_prefix ON kv_store(key text_pattern_ops)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// Get returns the value stored under key or ErrNotFound.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_store WHERE key=$1`
	var value []byte
	if err := s.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

// PutMany upserts all entries inside one transaction.
func (s *Storage) PutMany(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	// Stable lock order across concurrent writers.
	sort.Strings(keys)

	const upsert = `INSERT INTO kv_store (key, value) VALUES ($1, $2)
                    ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	return s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, k := range keys {
			if _, err := tx.Exec(ctx, upsert, k, entries[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Keys lists keys starting with prefix in lexical order.
func (s *Storage) Keys(ctx context.Context, prefix string) ([]string, error) {
	const query = `SELECT key FROM kv_store WHERE starts_with(key, $1) ORDER BY key`
	rows, err := s.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		result = append(result, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

var _ repository.KeyValueStore = (*Storage)(nil)
