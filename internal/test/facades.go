package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

// SessionFacadeStub provides controllable behaviour for session endpoints.
type SessionFacadeStub struct {
	ConnectFn  func(string, uint64) (string, string, error)
	Descriptor usecase.NetworkDescriptor
}

// Connect delegates to provided function or echoes the account.
func (s SessionFacadeStub) Connect(account string, chainID uint64) (string, string, error) {
	if s.ConnectFn != nil {
		return s.ConnectFn(account, chainID)
	}
	return "token", account, nil
}

// Network returns the configured descriptor.
func (s SessionFacadeStub) Network() usecase.NetworkDescriptor {
	return s.Descriptor
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	OrdersFn  func(context.Context, string, string) ([]usecase.OrderView, error)
	OrderFn   func(context.Context, string, string, string) (*usecase.OrderView, error)
	CreateFn  func(context.Context, string, model.NewOrder) (*usecase.OrderView, error)
	ExecuteFn func(context.Context, string, string, string, string, string) (*usecase.OrderView, error)
}

// Orders returns predefined orders for the account.
func (s OrderFacadeStub) Orders(ctx context.Context, account, role string) ([]usecase.OrderView, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, account, role)
	}
	return nil, nil
}

// Order returns one predefined order.
func (s OrderFacadeStub) Order(ctx context.Context, account, role, id string) (*usecase.OrderView, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, account, role, id)
	}
	return &usecase.OrderView{Order: model.Order{ID: id}, Role: model.Role(role)}, nil
}

// CreateOrder delegates to provided function or returns a pending order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, account string, in model.NewOrder) (*usecase.OrderView, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, account, in)
	}
	return &usecase.OrderView{
		Order: model.Order{ID: "order-1", OrderNumber: 1, Purchaser: account, Supplier: in.Supplier, Validator: in.Validator, Amount: in.Amount},
		Role:  model.RolePurchaser,
	}, nil
}

// ExecuteAction delegates to provided function.
func (s OrderFacadeStub) ExecuteAction(ctx context.Context, account, role, id, action, txHash string) (*usecase.OrderView, error) {
	if s.ExecuteFn != nil {
		return s.ExecuteFn(ctx, account, role, id, action, txHash)
	}
	return &usecase.OrderView{Order: model.Order{ID: id}, Role: model.Role(role)}, nil
}

// BalanceFacadeStub simulates token balance reads.
type BalanceFacadeStub struct {
	BalanceFn func(context.Context, string) (*model.TokenBalance, error)
}

// Balance returns stored balance or default data.
func (s BalanceFacadeStub) Balance(ctx context.Context, account string) (*model.TokenBalance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, account)
	}
	return &model.TokenBalance{Account: account, Amount: "1000", Symbol: "TUSDC"}, nil
}

// SyncCall stores information about SyncOrder invocations.
type SyncCall struct {
	OrderID  string
	Observed model.OrderState
}

// WorkerFacadeStub mimics reconciler interactions with the escrow facade.
type WorkerFacadeStub struct {
	Orders          [][]model.Order
	OrdersFn        func(context.Context, int) ([]model.Order, error)
	ChainFn         func(context.Context, uint64) (*model.ChainOrder, error)
	SyncFn          func(context.Context, model.Order, model.OrderState) (bool, error)
	Syncs           []SyncCall
	mu              sync.Mutex
	ordersCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersForReconcile returns batches from configured queue.
func (s *WorkerFacadeStub) OrdersForReconcile(ctx context.Context, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.ordersCallCount, 1)
	if int(call) <= len(s.Orders) {
		return s.Orders[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ChainOrder returns configured chain data, by default a delivered order.
func (s *WorkerFacadeStub) ChainOrder(ctx context.Context, id uint64) (*model.ChainOrder, error) {
	if s.ChainFn != nil {
		return s.ChainFn(ctx, id)
	}
	return &model.ChainOrder{ID: id, State: model.OrderStateDelivered}, nil
}

// SyncOrder records sync requests.
func (s *WorkerFacadeStub) SyncOrder(ctx context.Context, order model.Order, observed model.OrderState) (bool, error) {
	if s.SyncFn != nil {
		return s.SyncFn(ctx, order, observed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Syncs = append(s.Syncs, SyncCall{OrderID: order.ID, Observed: observed})
	return true, nil
}

// EscrowFacadeStub aggregates handler stubs into the full facade.
type EscrowFacadeStub struct {
	SessionFacadeStub
	OrderFacadeStub
	BalanceFacadeStub
	AuthenticatorStub
}
