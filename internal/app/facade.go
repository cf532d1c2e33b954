package app

import (
	"context"

	"github.com/polkiloo/escrowdesk/internal/adapter/contract"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

// EscrowFacade joins the use cases behind the HTTP handlers and the reconciler.
type EscrowFacade struct {
	sessions   *usecase.SessionUseCase
	orders     *usecase.OrderUseCase
	balance    *usecase.BalanceUseCase
	dispatcher *usecase.Dispatcher
	chain      contract.Client
}

func NewEscrowFacade(
	sessions *usecase.SessionUseCase,
	orders *usecase.OrderUseCase,
	balance *usecase.BalanceUseCase,
	dispatcher *usecase.Dispatcher,
	chain contract.Client,
) *EscrowFacade {
	return &EscrowFacade{sessions: sessions, orders: orders, balance: balance, dispatcher: dispatcher, chain: chain}
}

func (f *EscrowFacade) Connect(account string, chainID uint64) (string, string, error) {
	return f.sessions.Connect(account, chainID)
}

func (f *EscrowFacade) Authenticate(token string) (string, error) {
	return f.sessions.Authenticate(token)
}

func (f *EscrowFacade) Network() usecase.NetworkDescriptor {
	return f.sessions.Network()
}

func (f *EscrowFacade) Balance(ctx context.Context, account string) (*model.TokenBalance, error) {
	return f.balance.Balance(ctx, account)
}

func (f *EscrowFacade) Orders(ctx context.Context, account, role string) ([]usecase.OrderView, error) {
	return f.orders.List(ctx, account, role)
}

func (f *EscrowFacade) Order(ctx context.Context, account, role, id string) (*usecase.OrderView, error) {
	return f.orders.Get(ctx, account, role, id)
}

func (f *EscrowFacade) CreateOrder(ctx context.Context, account string, in model.NewOrder) (*usecase.OrderView, error) {
	order, err := f.dispatcher.Create(ctx, account, in)
	if err != nil {
		return nil, err
	}
	return &usecase.OrderView{
		Order:   *order,
		Role:    model.RolePurchaser,
		Actions: f.orders.Actions(*order, model.RolePurchaser),
	}, nil
}

func (f *EscrowFacade) ExecuteAction(ctx context.Context, account, role, id, action, txHash string) (*usecase.OrderView, error) {
	order, err := f.dispatcher.Execute(ctx, account, role, id, action, txHash)
	if err != nil {
		return nil, err
	}
	parsed, _ := model.ParseRole(role)
	return &usecase.OrderView{
		Order:   *order,
		Role:    parsed,
		Actions: f.orders.Actions(*order, parsed),
	}, nil
}

func (f *EscrowFacade) OrdersForReconcile(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.PendingOnChain(ctx, limit)
}

func (f *EscrowFacade) ChainOrder(ctx context.Context, id uint64) (*model.ChainOrder, error) {
	return f.chain.GetOrder(ctx, id)
}

func (f *EscrowFacade) SyncOrder(ctx context.Context, order model.Order, observed model.OrderState) (bool, error) {
	return f.dispatcher.Sync(ctx, order, observed)
}
