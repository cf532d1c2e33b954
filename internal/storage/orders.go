// Package storage persists account-scoped order collections on top of a
// key-value backend.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/domain/repository"
)

// KeyPrefix namespaces order collections in the key-value store.
const KeyPrefix = "orders:"

// Key returns the storage key holding the collection of account.
func Key(account string) string {
	return KeyPrefix + model.AccountKey(account)
}

// OrderStore implements repository.OrderRepository over a KeyValueStore.
type OrderStore struct {
	kv     repository.KeyValueStore
	logger *slog.Logger
}

// NewOrderStore wraps kv into an order repository.
func NewOrderStore(kv repository.KeyValueStore, logger *slog.Logger) *OrderStore {
	return &OrderStore{kv: kv, logger: logger}
}

// Load returns the collection of account. Missing or malformed payloads
// read as an empty collection.
func (s *OrderStore) Load(ctx context.Context, account string) ([]model.Order, error) {
	key := Key(account)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return []model.Order{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var orders []model.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		s.logger.Warn("malformed order collection", slog.String("key", key), slog.String("error", err.Error()))
		return []model.Order{}, nil
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// SaveAll replaces the collections of every account in one batch.
func (s *OrderStore) SaveAll(ctx context.Context, collections map[string][]model.Order) error {
	if len(collections) == 0 {
		return nil
	}
	entries := make(map[string][]byte, len(collections))
	for account, orders := range collections {
		if orders == nil {
			orders = []model.Order{}
		}
		payload, err := json.Marshal(orders)
		if err != nil {
			return fmt.Errorf("encode orders of %s: %w", account, err)
		}
		entries[Key(account)] = payload
	}
	return s.kv.PutMany(ctx, entries)
}

// Accounts lists every account that owns a collection.
func (s *OrderStore) Accounts(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}
	accounts := make([]string, 0, len(keys))
	for _, key := range keys {
		account := strings.TrimPrefix(key, KeyPrefix)
		if account == "" || account == key {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

var _ repository.OrderRepository = (*OrderStore)(nil)
