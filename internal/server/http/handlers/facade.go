package handlers

import (
	"context"

	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

// SessionFacade describes wallet session capabilities required by handlers.
type SessionFacade interface {
	Connect(account string, chainID uint64) (string, string, error)
	Network() usecase.NetworkDescriptor
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Orders(ctx context.Context, account, role string) ([]usecase.OrderView, error)
	Order(ctx context.Context, account, role, id string) (*usecase.OrderView, error)
	CreateOrder(ctx context.Context, account string, in model.NewOrder) (*usecase.OrderView, error)
	ExecuteAction(ctx context.Context, account, role, id, action, txHash string) (*usecase.OrderView, error)
}

// BalanceFacade provides token balance reads.
type BalanceFacade interface {
	Balance(ctx context.Context, account string) (*model.TokenBalance, error)
}

// EscrowFacade aggregates the full set of operations used across handlers.
type EscrowFacade interface {
	SessionFacade
	OrderFacade
	BalanceFacade
	Authenticate(token string) (string, error)
}
