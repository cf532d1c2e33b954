// Package pebble stores key-value entries in an embedded Pebble database.
package pebble

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/repository"
)

// Store is a repository.KeyValueStore on top of pebble.DB.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Store, error) {
	opts := &pebble.Options{
		MemTableSize:          64 << 20,
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 12,
	}
	db, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

// PutMany commits all entries in one synced batch.
func (s *Store) PutMany(_ context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	batch := s.db.NewBatch()
	defer batch.Close()
	for k, v := range entries {
		if err := batch.Set([]byte(k), v, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: upperBound([]byte(prefix)),
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var keys []string
	for it.First(); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	return keys, it.Error()
}

func (s *Store) Close() error { return s.db.Close() }

// upperBound returns the smallest key greater than every key with prefix.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

var _ repository.KeyValueStore = (*Store)(nil)
