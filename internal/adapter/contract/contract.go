// Package contract talks to the token and escrow contracts.
package contract

import (
	"context"

	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

// Client exposes the escrow contract operations used by the dispatcher.
// Write operations return once the call is final.
type Client interface {
	CreateOrder(ctx context.Context, call model.CreateCall) (uint64, error)
	ConfirmDelivery(ctx context.Context, call model.ActionCall) error
	WithdrawFunds(ctx context.Context, call model.ActionCall) error
	CancelOrder(ctx context.Context, call model.ActionCall) error
	GetOrder(ctx context.Context, id uint64) (*model.ChainOrder, error)
	Balance(ctx context.Context, account string) (*model.TokenBalance, error)
}

// Invoke routes action to the matching contract method.
func Invoke(ctx context.Context, c Client, action model.Action, call model.ActionCall) error {
	switch action {
	case model.ActionConfirmDelivery:
		return c.ConfirmDelivery(ctx, call)
	case model.ActionWithdrawFunds:
		return c.WithdrawFunds(ctx, call)
	case model.ActionCancelOrder:
		return c.CancelOrder(ctx, call)
	default:
		return ErrUnsupportedAction
	}
}
