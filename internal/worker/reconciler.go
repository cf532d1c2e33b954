package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/metrics"
)

// Reconcile results.
const (
	ResultSynced    = "synced"
	ResultUnchanged = "unchanged"
	ResultMissing   = "missing"
	ResultConflict  = "conflict"
	ResultFailed    = "failed"
)

// EscrowFacade exposes the subset of application functionality required by the worker.
type EscrowFacade interface {
	OrdersForReconcile(ctx context.Context, limit int) ([]model.Order, error)
	ChainOrder(ctx context.Context, id uint64) (*model.ChainOrder, error)
	SyncOrder(ctx context.Context, order model.Order, observed model.OrderState) (bool, error)
}

// Reconciler polls the escrow contract and moves pending orders forward concurrently.
type Reconciler struct {
	facade       EscrowFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	metrics      *metrics.Registry
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs reconciler worker pool.
func NewReconciler(facade EscrowFacade, pollInterval time.Duration, batchSize, workers int, registry *metrics.Registry, logger *slog.Logger) *Reconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	return &Reconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		metrics:      registry,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background reconciliation.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Reconciler) fetchAndDispatch(ctx context.Context) {
	orders, err := r.facade.OrdersForReconcile(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("fetch orders for reconcile failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- order:
		}
	}
}

func (r *Reconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order := <-r.jobs:
			r.metrics.ObserveReconcile(r.handleOrder(ctx, order))
		}
	}
}

func (r *Reconciler) handleOrder(ctx context.Context, order model.Order) string {
	if order.ChainOrderID == nil {
		return ResultUnchanged
	}

	chain, err := r.facade.ChainOrder(ctx, *order.ChainOrderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			r.logger.Warn("order missing on chain",
				slog.String("order", order.ID),
				slog.Uint64("chain_order_id", *order.ChainOrderID),
			)
			return ResultMissing
		}
		r.logger.Error("chain order fetch failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		return ResultFailed
	}

	changed, err := r.facade.SyncOrder(ctx, order, chain.State)
	if err != nil {
		if errors.Is(err, domainErrors.ErrIllegalTransition) {
			r.logger.Warn("chain state conflicts with local order",
				slog.String("order", order.ID),
				slog.String("chain_state", chain.State.String()),
				slog.String("error", err.Error()),
			)
			return ResultConflict
		}
		r.logger.Error("sync order failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		return ResultFailed
	}
	if !changed {
		return ResultUnchanged
	}

	r.logger.Info("order synced from chain",
		slog.String("order", order.ID),
		slog.String("state", chain.State.String()),
	)
	return ResultSynced
}
