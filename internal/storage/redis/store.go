// Package redis stores key-value entries in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/repository"
)

const scanCount = 100

type redisClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	MSet(ctx context.Context, values ...interface{}) *goredis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *goredis.ScanCmd
	Ping(ctx context.Context) *goredis.StatusCmd
	Close() error
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Store is a repository.KeyValueStore backed by Redis strings.
type Store struct {
	client redisClient
}

// New creates a client and verifies connectivity.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domainErrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// PutMany writes all entries with a single atomic MSET.
func (s *Store) PutMany(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	pairs := make([]interface{}, 0, len(entries)*2)
	for k, v := range entries {
		pairs = append(pairs, k, v)
	}
	return s.client.MSet(ctx, pairs...).Err()
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
		seen   = make(map[string]struct{})
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, prefix+"*", scanCount).Result()
		if err != nil {
			return nil, err
		}
		// SCAN may return a key more than once.
		for _, k := range batch {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Strings(keys)
	return keys, nil
}

// HealthCheck pings the server.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ repository.KeyValueStore = (*Store)(nil)
