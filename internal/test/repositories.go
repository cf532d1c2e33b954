package test

import (
	"context"
	"sync"

	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

// OrderRepositoryStub stores collections in-memory, with optional overrides.
type OrderRepositoryStub struct {
	LoadFn     func(context.Context, string) ([]model.Order, error)
	SaveAllFn  func(context.Context, map[string][]model.Order) error
	AccountsFn func(context.Context) ([]string, error)

	mu          sync.Mutex
	Collections map[string][]model.Order
	Saves       int
}

// Load returns the stored collection of account.
func (s *OrderRepositoryStub) Load(ctx context.Context, account string) ([]model.Order, error) {
	if s.LoadFn != nil {
		return s.LoadFn(ctx, account)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Order(nil), s.Collections[model.AccountKey(account)]...), nil
}

// SaveAll replaces collections.
func (s *OrderRepositoryStub) SaveAll(ctx context.Context, collections map[string][]model.Order) error {
	if s.SaveAllFn != nil {
		return s.SaveAllFn(ctx, collections)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Collections == nil {
		s.Collections = make(map[string][]model.Order)
	}
	for account, orders := range collections {
		s.Collections[model.AccountKey(account)] = append([]model.Order(nil), orders...)
	}
	s.Saves++
	return nil
}

// Accounts lists stored accounts.
func (s *OrderRepositoryStub) Accounts(ctx context.Context) ([]string, error) {
	if s.AccountsFn != nil {
		return s.AccountsFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make([]string, 0, len(s.Collections))
	for account := range s.Collections {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// ContractStub implements contract.Client via function overrides. Unset
// write calls succeed.
type ContractStub struct {
	CreateFn   func(context.Context, model.CreateCall) (uint64, error)
	ActionFn   func(context.Context, model.Action, model.ActionCall) error
	GetOrderFn func(context.Context, uint64) (*model.ChainOrder, error)
	BalanceFn  func(context.Context, string) (*model.TokenBalance, error)

	mu    sync.Mutex
	Calls []model.Action
}

func (s *ContractStub) CreateOrder(ctx context.Context, call model.CreateCall) (uint64, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, call)
	}
	return 1, nil
}

func (s *ContractStub) ConfirmDelivery(ctx context.Context, call model.ActionCall) error {
	return s.action(ctx, model.ActionConfirmDelivery, call)
}

func (s *ContractStub) WithdrawFunds(ctx context.Context, call model.ActionCall) error {
	return s.action(ctx, model.ActionWithdrawFunds, call)
}

func (s *ContractStub) CancelOrder(ctx context.Context, call model.ActionCall) error {
	return s.action(ctx, model.ActionCancelOrder, call)
}

func (s *ContractStub) GetOrder(ctx context.Context, id uint64) (*model.ChainOrder, error) {
	if s.GetOrderFn != nil {
		return s.GetOrderFn(ctx, id)
	}
	return &model.ChainOrder{ID: id}, nil
}

func (s *ContractStub) Balance(ctx context.Context, account string) (*model.TokenBalance, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, account)
	}
	return &model.TokenBalance{Account: account, Amount: "1000", Symbol: "TUSDC"}, nil
}

func (s *ContractStub) action(ctx context.Context, action model.Action, call model.ActionCall) error {
	s.mu.Lock()
	s.Calls = append(s.Calls, action)
	s.mu.Unlock()
	if s.ActionFn != nil {
		return s.ActionFn(ctx, action, call)
	}
	return nil
}

// CallCount returns the number of recorded action calls.
func (s *ContractStub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// PublisherStub records published events.
type PublisherStub struct {
	Err error

	mu     sync.Mutex
	Events []model.OrderEvent
	Closed bool
}

func (p *PublisherStub) Publish(_ context.Context, event model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return p.Err
}

func (p *PublisherStub) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Published returns a copy of recorded events.
func (p *PublisherStub) Published() []model.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.OrderEvent(nil), p.Events...)
}
