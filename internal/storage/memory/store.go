// Package memory provides an in-process key-value store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/repository"
)

// Store keeps values in a map guarded by a RWMutex.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) PutMany(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.data[k] = append([]byte(nil), v...)
	}
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error { return nil }

var _ repository.KeyValueStore = (*Store)(nil)
