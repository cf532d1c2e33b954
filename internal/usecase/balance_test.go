package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/polkiloo/escrowdesk/internal/adapter/contract"
	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/escrowdesk/internal/test"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

func TestBalanceUseCase(t *testing.T) {
	uc := usecase.NewBalanceUseCase(contract.NewSimulated(0))

	balance, err := uc.Balance(context.Background(), accountA)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Amount != "1000" || balance.Symbol != "TUSDC" {
		t.Fatalf("unexpected balance %+v", balance)
	}
}

func TestBalanceUseCaseErrors(t *testing.T) {
	uc := usecase.NewBalanceUseCase(&testhelpers.ContractStub{BalanceFn: func(context.Context, string) (*model.TokenBalance, error) {
		return nil, errors.New("rpc down")
	}})

	if _, err := uc.Balance(context.Background(), "0x12"); !errors.Is(err, domainErrors.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
	if _, err := uc.Balance(context.Background(), accountA); !errors.Is(err, domainErrors.ErrContractCall) {
		t.Fatalf("expected ErrContractCall, got %v", err)
	}
}
