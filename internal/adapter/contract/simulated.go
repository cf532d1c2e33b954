package contract

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

const (
	simulatedBalance = "1000"
	simulatedSymbol  = "TUSDC"
)

// Simulated keeps an in-memory escrow ledger and delays every call by a fixed latency.
type Simulated struct {
	delay time.Duration

	mu     sync.Mutex
	nextID uint64
	orders map[uint64]model.ChainOrder
}

// NewSimulated constructs a ledger with the given per-call latency.
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{
		delay:  delay,
		nextID: 1,
		orders: make(map[uint64]model.ChainOrder),
	}
}

// CreateOrder approves the token transfer and records the order; both steps cost one delay.
func (s *Simulated) CreateOrder(ctx context.Context, call model.CreateCall) (uint64, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	if err := s.wait(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.orders[id] = model.ChainOrder{
		ID:        id,
		Purchaser: call.Caller,
		Supplier:  call.Supplier,
		Validator: call.Validator,
		Amount:    call.Amount,
		State:     model.OrderStatePending,
	}
	return id, nil
}

// ConfirmDelivery marks a pending order delivered; only the purchaser may call it.
func (s *Simulated) ConfirmDelivery(ctx context.Context, call model.ActionCall) error {
	return s.transition(ctx, call, model.OrderStatePending, model.OrderStateDelivered, func(o model.ChainOrder) string {
		return o.Purchaser
	})
}

// WithdrawFunds releases escrow of a delivered order to its supplier.
func (s *Simulated) WithdrawFunds(ctx context.Context, call model.ActionCall) error {
	return s.transition(ctx, call, model.OrderStateDelivered, model.OrderStateDelivered, func(o model.ChainOrder) string {
		return o.Supplier
	})
}

// CancelOrder cancels a pending order on behalf of its purchaser or supplier.
func (s *Simulated) CancelOrder(ctx context.Context, call model.ActionCall) error {
	return s.transition(ctx, call, model.OrderStatePending, model.OrderStateCancelled, func(o model.ChainOrder) string {
		if model.SameAddress(call.Caller, o.Supplier) {
			return o.Supplier
		}
		return o.Purchaser
	})
}

// GetOrder returns a copy of the stored order or ErrNotFound.
func (s *Simulated) GetOrder(_ context.Context, id uint64) (*model.ChainOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

// Balance reports a fixed demo balance for any account.
func (s *Simulated) Balance(_ context.Context, account string) (*model.TokenBalance, error) {
	return &model.TokenBalance{Account: account, Amount: simulatedBalance, Symbol: simulatedSymbol}, nil
}

func (s *Simulated) transition(ctx context.Context, call model.ActionCall, from, to model.OrderState, actor func(model.ChainOrder) string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[call.ChainOrderID]
	if !ok {
		return fmt.Errorf("%w: order %d does not exist", ErrReverted, call.ChainOrderID)
	}
	if !model.SameAddress(actor(o), call.Caller) {
		return fmt.Errorf("%w: caller not authorized", ErrReverted)
	}
	if o.State != from {
		return fmt.Errorf("%w: order %d is %s", ErrReverted, o.ID, o.State)
	}
	o.State = to
	s.orders[o.ID] = o
	return nil
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ Client = (*Simulated)(nil)
