package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/escrowdesk/internal/test"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

func chainID(v uint64) *uint64 { return &v }

func TestOrderUseCaseListFiltersByRole(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{Collections: map[string][]model.Order{
		accountA: {
			{ID: "1", Purchaser: accountA, Supplier: accountB, Validator: accountC},
			{ID: "2", Purchaser: accountB, Supplier: accountA, Validator: accountC},
			{ID: "3", Purchaser: accountA, Supplier: accountC, Validator: accountB},
		},
	}}
	uc := usecase.NewOrderUseCase(repo, discardLogger())

	views, err := uc.List(context.Background(), "0x1111111111111111111111111111111111111111", "Purchaser")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 || views[0].Order.ID != "1" || views[1].Order.ID != "3" {
		t.Fatalf("unexpected views %+v", views)
	}
	if views[0].Role != model.RolePurchaser {
		t.Fatalf("unexpected role %s", views[0].Role)
	}
	want := []model.Action{model.ActionConfirmDelivery, model.ActionCancelOrder}
	if len(views[0].Actions) != len(want) || views[0].Actions[0] != want[0] || views[0].Actions[1] != want[1] {
		t.Fatalf("unexpected actions %v", views[0].Actions)
	}
}

func TestOrderUseCaseListValidation(t *testing.T) {
	uc := usecase.NewOrderUseCase(&testhelpers.OrderRepositoryStub{}, discardLogger())

	if _, err := uc.List(context.Background(), accountA, "owner"); !errors.Is(err, domainErrors.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := uc.List(context.Background(), "", "purchaser"); !errors.Is(err, domainErrors.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

func TestOrderUseCaseListSwallowsStorageErrors(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{LoadFn: func(context.Context, string) ([]model.Order, error) {
		return nil, errors.New("connection refused")
	}}
	uc := usecase.NewOrderUseCase(repo, discardLogger())

	views, err := uc.List(context.Background(), accountA, "purchaser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty list, got %d", len(views))
	}
}

func TestOrderUseCaseGet(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{Collections: map[string][]model.Order{
		accountB: {{ID: "1", Purchaser: accountA, Supplier: accountB, Validator: accountC, State: model.OrderStateDelivered}},
	}}
	uc := usecase.NewOrderUseCase(repo, discardLogger())
	ctx := context.Background()

	view, err := uc.Get(ctx, accountB, "supplier", "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Actions) != 1 || view.Actions[0] != model.ActionWithdrawFunds {
		t.Fatalf("unexpected actions %v", view.Actions)
	}
	if _, err := uc.Get(ctx, accountB, "validator", "1"); !errors.Is(err, domainErrors.ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
	if _, err := uc.Get(ctx, accountB, "supplier", "2"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderUseCasePendingOnChain(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{Collections: map[string][]model.Order{
		accountA: {
			{ID: "1", ChainOrderID: chainID(1), Purchaser: accountA, Supplier: accountB},
			{ID: "2", Purchaser: accountA, Supplier: accountB},
			{ID: "3", ChainOrderID: chainID(3), Purchaser: accountA, Supplier: accountB, State: model.OrderStateDelivered},
			{ID: "4", ChainOrderID: chainID(4), Purchaser: accountC, Supplier: accountA},
			{ID: "5", ChainOrderID: chainID(5), Purchaser: accountA, Supplier: accountB},
		},
		accountB: {
			{ID: "1", ChainOrderID: chainID(1), Purchaser: accountA, Supplier: accountB},
		},
	}}
	uc := usecase.NewOrderUseCase(repo, discardLogger())

	orders, err := uc.PendingOnChain(context.Background(), 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "1" || orders[1].ID != "5" {
		t.Fatalf("unexpected orders %+v", orders)
	}

	limited, err := uc.PendingOnChain(context.Background(), 1)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestOrderUseCasePendingOnChainRotates(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{Collections: map[string][]model.Order{
		accountA: {
			{ID: "a", ChainOrderID: chainID(3), Purchaser: accountA, Supplier: accountB},
			{ID: "b", ChainOrderID: chainID(1), Purchaser: accountA, Supplier: accountB},
		},
		accountC: {
			{ID: "c", ChainOrderID: chainID(2), Purchaser: accountC, Supplier: accountB},
		},
	}}
	uc := usecase.NewOrderUseCase(repo, discardLogger())
	ctx := context.Background()

	var rounds [][]uint64
	seen := map[uint64]int{}
	for i := 0; i < 3; i++ {
		batch, err := uc.PendingOnChain(ctx, 2)
		if err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		var ids []uint64
		for _, o := range batch {
			ids = append(ids, *o.ChainOrderID)
			seen[*o.ChainOrderID]++
		}
		rounds = append(rounds, ids)
	}

	want := [][]uint64{{1, 2}, {3, 1}, {2, 3}}
	for i := range want {
		if len(rounds[i]) != 2 || rounds[i][0] != want[i][0] || rounds[i][1] != want[i][1] {
			t.Fatalf("round %d: expected %v, got %v", i, want[i], rounds[i])
		}
	}
	for id := uint64(1); id <= 3; id++ {
		if seen[id] != 2 {
			t.Fatalf("expected chain order %d visited twice, got %d", id, seen[id])
		}
	}
}

func TestOrderUseCasePendingOnChainAccountsError(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{AccountsFn: func(context.Context) ([]string, error) {
		return nil, errors.New("scan failed")
	}}
	uc := usecase.NewOrderUseCase(repo, discardLogger())
	if _, err := uc.PendingOnChain(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}
}
