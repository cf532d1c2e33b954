package repository

import (
	"context"

	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

// OrderRepository persists account-scoped order collections.
type OrderRepository interface {
	// Load returns the account collection; absent or malformed payloads yield an empty slice.
	Load(ctx context.Context, account string) ([]model.Order, error)
	// SaveAll replaces several collections in one write.
	SaveAll(ctx context.Context, collections map[string][]model.Order) error
	// Accounts lists accounts that own a stored collection.
	Accounts(ctx context.Context) ([]string, error)
}
