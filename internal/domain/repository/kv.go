package repository

import "context"

// KeyValueStore is the persistence collaborator behind order collections.
// Get returns domain ErrNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutMany(ctx context.Context, entries map[string][]byte) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
