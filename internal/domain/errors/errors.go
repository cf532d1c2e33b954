package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidAccount       = errors.New("invalid account address")
	ErrInvalidSupplier      = errors.New("invalid supplier address")
	ErrInvalidValidator     = errors.New("invalid validator address")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrSupplierIsPurchaser  = errors.New("supplier cannot be the purchaser")
	ErrValidatorIsPurchaser = errors.New("validator cannot be the purchaser")
	ErrInvalidRole          = errors.New("invalid role")
	ErrUnknownAction        = errors.New("unknown action")
	ErrWrongNetwork         = errors.New("wrong network")
	ErrRoleMismatch         = errors.New("account does not hold role for order")
	ErrIllegalTransition    = errors.New("illegal transition")
	ErrActionInProgress     = errors.New("another action is in progress")
	ErrNotOnChain           = errors.New("order has no on-chain id")
	ErrDuplicateChainOrder  = errors.New("on-chain order already recorded")
	ErrContractCall         = errors.New("contract call failed")
	ErrPersistence          = errors.New("persistence failure")
)

// TransitionError reports an action the state machine refused.
type TransitionError struct {
	Action string
	Role   string
	State  string
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %s by %s in state %s: %s", e.Action, e.Role, e.State, e.Reason)
}

// Is lets errors.Is match ErrIllegalTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// IsValidation reports whether err is a client side validation failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidAccount,
		ErrInvalidSupplier,
		ErrInvalidValidator,
		ErrInvalidAmount,
		ErrSupplierIsPurchaser,
		ErrValidatorIsPurchaser,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
