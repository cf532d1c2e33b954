package usecase

import (
	"context"
	"fmt"

	"github.com/polkiloo/escrowdesk/internal/adapter/contract"
	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

// BalanceUseCase reads token balances of session accounts.
type BalanceUseCase struct {
	contract contract.Client
}

// NewBalanceUseCase constructs BalanceUseCase.
func NewBalanceUseCase(client contract.Client) *BalanceUseCase {
	return &BalanceUseCase{contract: client}
}

// Balance returns the escrowed token balance of account.
func (u *BalanceUseCase) Balance(ctx context.Context, account string) (*model.TokenBalance, error) {
	if !model.IsValidAddress(account) {
		return nil, domainErrors.ErrInvalidAccount
	}
	balance, err := u.contract.Balance(ctx, model.NormalizeAddress(account))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrContractCall, err)
	}
	return balance, nil
}
