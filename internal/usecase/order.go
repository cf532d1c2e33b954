package usecase

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/escrow"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/domain/repository"
)

// OrderView is an order as seen by one account under one role.
type OrderView struct {
	Order   model.Order
	Role    model.Role
	Actions []model.Action
}

// OrderUseCase serves the read side of order collections.
type OrderUseCase struct {
	orders repository.OrderRepository
	logger *slog.Logger

	// reconcileAfter is the last chain id handed out by PendingOnChain.
	mu             sync.Mutex
	reconcileAfter uint64
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, logger: logger}
}

// List returns orders in which account holds role, in collection order.
// Storage failures are logged and read as an empty collection.
func (u *OrderUseCase) List(ctx context.Context, account, rawRole string) ([]OrderView, error) {
	role, err := parseSession(account, rawRole)
	if err != nil {
		return nil, err
	}

	orders, err := u.orders.Load(ctx, account)
	if err != nil {
		u.logger.Error("load orders failed", slog.String("account", account), slog.String("error", err.Error()))
		orders = nil
	}

	filtered := escrow.Filter(orders, account, role)
	views := make([]OrderView, 0, len(filtered))
	for _, o := range filtered {
		views = append(views, view(o, role))
	}
	return views, nil
}

// Get returns one order of account, checking account holds role in it.
func (u *OrderUseCase) Get(ctx context.Context, account, rawRole, id string) (*OrderView, error) {
	role, err := parseSession(account, rawRole)
	if err != nil {
		return nil, err
	}

	orders, err := u.orders.Load(ctx, account)
	if err != nil {
		u.logger.Error("load orders failed", slog.String("account", account), slog.String("error", err.Error()))
		return nil, domainErrors.ErrNotFound
	}

	order, ok := find(orders, id)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if !escrow.Holds(order, account, role) {
		return nil, domainErrors.ErrRoleMismatch
	}

	v := view(order, role)
	return &v, nil
}

// Actions returns actions role may perform on order.
func (u *OrderUseCase) Actions(order model.Order, role model.Role) []model.Action {
	return escrow.Permitted(order, role)
}

// PendingOnChain returns up to limit pending orders that carry a contract id,
// ordered by chain id. Successive calls resume after the last returned id and
// wrap around, so every pending order is visited even when more than limit
// stay pending. Each order is taken from its purchaser's collection only.
func (u *OrderUseCase) PendingOnChain(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 {
		return nil, nil
	}
	accounts, err := u.orders.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	var pending []model.Order
	for _, account := range accounts {
		orders, err := u.orders.Load(ctx, account)
		if err != nil {
			u.logger.Warn("skip account", slog.String("account", account), slog.String("error", err.Error()))
			continue
		}
		for _, o := range orders {
			if o.State != model.OrderStatePending || o.ChainOrderID == nil {
				continue
			}
			if !escrow.Holds(o, account, model.RolePurchaser) {
				continue
			}
			pending = append(pending, o)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}
	slices.SortFunc(pending, func(a, b model.Order) int {
		return cmp.Compare(*a.ChainOrderID, *b.ChainOrderID)
	})

	u.mu.Lock()
	defer u.mu.Unlock()

	start, _ := slices.BinarySearchFunc(pending, u.reconcileAfter, func(o model.Order, after uint64) int {
		if *o.ChainOrderID <= after {
			return -1
		}
		return 1
	})
	n := min(limit, len(pending))
	result := make([]model.Order, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, pending[(start+i)%len(pending)])
	}
	u.reconcileAfter = *result[n-1].ChainOrderID
	return result, nil
}

func parseSession(account, rawRole string) (model.Role, error) {
	if !model.IsValidAddress(account) {
		return "", domainErrors.ErrInvalidAccount
	}
	role, ok := model.ParseRole(rawRole)
	if !ok {
		return "", domainErrors.ErrInvalidRole
	}
	return role, nil
}

func view(order model.Order, role model.Role) OrderView {
	return OrderView{Order: order, Role: role, Actions: escrow.Permitted(order, role)}
}

func find(orders []model.Order, id string) (model.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}
