package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/escrowdesk/internal/adapter/contract"
	"github.com/polkiloo/escrowdesk/internal/adapter/events"
	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/escrow"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/domain/repository"
	"github.com/polkiloo/escrowdesk/internal/metrics"
)

const createAction = "createOrder"

// Dispatcher runs order mutations: validation, contract call, commit, event.
type Dispatcher struct {
	orders    repository.OrderRepository
	contract  contract.Client
	publisher events.Publisher
	metrics   *metrics.Registry
	logger    *slog.Logger

	now   func() time.Time
	newID func() (string, error)

	// commitMu serialises read-modify-write of collections.
	commitMu sync.Mutex
	inflight *inflight
}

// NewDispatcher constructs Dispatcher.
func NewDispatcher(
	orders repository.OrderRepository,
	client contract.Client,
	publisher events.Publisher,
	registry *metrics.Registry,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		orders:    orders,
		contract:  client,
		publisher: publisher,
		metrics:   registry,
		logger:    logger,
		now:       time.Now,
		newID:     newOrderID,
		inflight:  newInflight(),
	}
}

func newOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Create escrows a new order with account as purchaser.
func (d *Dispatcher) Create(ctx context.Context, account string, in model.NewOrder) (order *model.Order, err error) {
	defer func() { d.metrics.ObserveAction(createAction, outcome(err)) }()

	if err := ValidateNewOrder(account, in); err != nil {
		return nil, err
	}

	release, ok := d.inflight.acquire(account)
	if !ok {
		return nil, domainErrors.ErrActionInProgress
	}
	defer release()

	purchaser := model.NormalizeAddress(account)
	supplier := model.NormalizeAddress(strings.TrimSpace(in.Supplier))
	validator := model.NormalizeAddress(strings.TrimSpace(in.Validator))
	amount := strings.TrimSpace(in.Amount)

	started := time.Now()
	chainID, err := d.contract.CreateOrder(ctx, model.CreateCall{
		Caller:    purchaser,
		Supplier:  supplier,
		Validator: validator,
		Amount:    amount,
		TxHash:    in.TxHash,
	})
	d.metrics.ObserveContractCall(createAction, started, err)
	if err != nil {
		d.logger.Error("create order call failed", slog.String("account", purchaser), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrContractCall, err)
	}

	id, err := d.newID()
	if err != nil {
		return nil, fmt.Errorf("%w: order id: %w", domainErrors.ErrPersistence, err)
	}

	created := model.Order{
		ID:              id,
		ChainOrderID:    &chainID,
		Purchaser:       purchaser,
		Supplier:        supplier,
		Validator:       validator,
		Amount:          amount,
		State:           model.OrderStatePending,
		ProductName:     strings.TrimSpace(in.ProductName),
		OriginCity:      strings.TrimSpace(in.OriginCity),
		DestinationCity: strings.TrimSpace(in.DestinationCity),
		Progress:        0,
		CreatedAt:       d.now().UTC(),
	}

	if err := d.commitNew(ctx, &created); err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateChainOrder) {
			d.logger.Warn("create replayed an existing chain order",
				slog.String("account", purchaser),
				slog.Uint64("chain_order_id", chainID),
			)
			return nil, err
		}
		d.logger.Error("persist created order failed", slog.String("order", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}

	d.publish(ctx, created, model.EventOrderCreated, purchaser, model.RolePurchaser)
	return &created, nil
}

// Execute performs action on order id as account holding rawRole. txHash
// references the wallet transaction when the contract is a real chain.
func (d *Dispatcher) Execute(ctx context.Context, account, rawRole, id, rawAction, txHash string) (order *model.Order, err error) {
	action, known := model.ParseAction(rawAction)
	defer func() {
		label := string(action)
		if !known {
			label = "unknown"
		}
		d.metrics.ObserveAction(label, outcome(err))
	}()

	role, err := parseSession(account, rawRole)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, domainErrors.ErrUnknownAction
	}

	release, ok := d.inflight.acquire(account)
	if !ok {
		return nil, domainErrors.ErrActionInProgress
	}
	defer release()

	orders, err := d.orders.Load(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}
	current, found := find(orders, id)
	if !found {
		return nil, domainErrors.ErrNotFound
	}
	if !escrow.Holds(current, account, role) {
		return nil, domainErrors.ErrRoleMismatch
	}

	expected, err := escrow.Apply(current, role, action)
	if err != nil {
		return nil, err
	}
	if current.ChainOrderID == nil {
		return nil, domainErrors.ErrNotOnChain
	}

	started := time.Now()
	err = contract.Invoke(ctx, d.contract, action, model.ActionCall{
		Caller:       model.NormalizeAddress(account),
		ChainOrderID: *current.ChainOrderID,
		TxHash:       txHash,
	})
	d.metrics.ObserveContractCall(string(action), started, err)
	if err != nil {
		d.logger.Error("contract call failed",
			slog.String("order", id),
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrContractCall, err)
	}

	updated, _, err := d.commit(ctx, current, func(latest model.Order) (model.Order, bool, error) {
		next, err := escrow.Apply(latest, role, action)
		if err == nil {
			return next, true, nil
		}
		// The chain already moved; a reconcile may have recorded it first.
		if latest.State == expected.State && latest.FundsWithdrawn == expected.FundsWithdrawn {
			return latest, false, nil
		}
		return latest, false, err
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrIllegalTransition) {
			return nil, err
		}
		d.logger.Error("persist action failed", slog.String("order", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrPersistence, err)
	}

	d.publish(ctx, updated, model.EventForAction(action), model.NormalizeAddress(account), role)
	return &updated, nil
}

// Sync records a state observed on the chain for order. It reports whether
// local state changed.
func (d *Dispatcher) Sync(ctx context.Context, order model.Order, observed model.OrderState) (bool, error) {
	updated, changed, err := d.commit(ctx, order, func(latest model.Order) (model.Order, bool, error) {
		return escrow.Observe(latest, observed)
	})
	if err != nil {
		return false, err
	}
	if changed {
		d.publish(ctx, updated, model.EventOrderSynced, "", "")
	}
	return changed, nil
}

// commitNew appends order to every participant collection. The order number
// is assigned under the commit lock. A chain order backs at most one local order.
func (d *Dispatcher) commitNew(ctx context.Context, order *model.Order) error {
	d.commitMu.Lock()
	defer d.commitMu.Unlock()

	collections := make(map[string][]model.Order, 3)
	for _, participant := range order.Participants() {
		orders, err := d.orders.Load(ctx, participant)
		if err != nil {
			return err
		}
		if order.ChainOrderID != nil && holdsChainOrder(orders, *order.ChainOrderID) {
			return fmt.Errorf("%w: chain order %d", domainErrors.ErrDuplicateChainOrder, *order.ChainOrderID)
		}
		collections[participant] = orders
	}

	purchaserKey := model.AccountKey(order.Purchaser)
	order.OrderNumber = len(escrow.Filter(collections[purchaserKey], order.Purchaser, model.RolePurchaser)) + 1

	for key, orders := range collections {
		collections[key] = append(orders, *order)
	}
	return d.orders.SaveAll(ctx, collections)
}

func holdsChainOrder(orders []model.Order, chainID uint64) bool {
	for _, o := range orders {
		if o.ChainOrderID != nil && *o.ChainOrderID == chainID {
			return true
		}
	}
	return false
}

// commit reloads order from every participant collection, applies mutate to
// the freshest copy and rewrites all collections in one batch.
func (d *Dispatcher) commit(
	ctx context.Context,
	order model.Order,
	mutate func(model.Order) (model.Order, bool, error),
) (model.Order, bool, error) {
	d.commitMu.Lock()
	defer d.commitMu.Unlock()

	participants := order.Participants()
	collections := make(map[string][]model.Order, len(participants))
	latest, seen := order, false
	for _, participant := range participants {
		orders, err := d.orders.Load(ctx, participant)
		if err != nil {
			return order, false, err
		}
		collections[participant] = orders
		if o, ok := find(orders, order.ID); ok && !seen {
			latest, seen = o, true
		}
	}

	next, changed, err := mutate(latest)
	if err != nil || !changed {
		return next, false, err
	}

	for key, orders := range collections {
		collections[key] = replace(orders, next)
	}
	if err := d.orders.SaveAll(ctx, collections); err != nil {
		return latest, false, err
	}
	return next, true, nil
}

func (d *Dispatcher) publish(ctx context.Context, order model.Order, kind model.EventType, account string, role model.Role) {
	event := model.OrderEvent{
		Type:       kind,
		OrderID:    order.ID,
		ChainID:    order.ChainOrderID,
		Account:    account,
		Role:       role,
		State:      order.State,
		OccurredAt: d.now().UTC(),
	}
	if err := d.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		d.metrics.ObserveEventFailure()
		d.logger.Warn("publish order event failed",
			slog.String("order", order.ID),
			slog.String("type", string(kind)),
			slog.String("error", err.Error()),
		)
	}
}

// replace swaps the order with the same id, appending it when absent.
func replace(orders []model.Order, order model.Order) []model.Order {
	result := make([]model.Order, 0, len(orders)+1)
	replaced := false
	for _, o := range orders {
		if o.ID == order.ID {
			result = append(result, order)
			replaced = true
			continue
		}
		result = append(result, o)
	}
	if !replaced {
		result = append(result, order)
	}
	return result
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domainErrors.ErrActionInProgress):
		return metrics.OutcomeBusy
	case errors.Is(err, domainErrors.ErrContractCall), errors.Is(err, domainErrors.ErrPersistence):
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeRejected
	}
}

// inflight tracks accounts with an action under way.
type inflight struct {
	mu       sync.Mutex
	accounts map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{accounts: make(map[string]struct{})}
}

func (f *inflight) acquire(account string) (func(), bool) {
	key := model.AccountKey(account)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.accounts[key]; busy {
		return nil, false
	}
	f.accounts[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.accounts, key)
		f.mu.Unlock()
	}, true
}
