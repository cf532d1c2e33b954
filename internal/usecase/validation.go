package usecase

import (
	"math/big"
	"regexp"
	"strings"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ValidateAmount checks amount is a positive plain decimal.
func ValidateAmount(amount string) bool {
	if !amountPattern.MatchString(amount) {
		return false
	}
	value, ok := new(big.Rat).SetString(amount)
	if !ok {
		return false
	}
	return value.Sign() > 0
}

// ValidateNewOrder checks fields submitted by purchaser. The first failing
// rule is returned.
// Addresses are compared after trimming, the same way they are stored.
func ValidateNewOrder(purchaser string, in model.NewOrder) error {
	purchaser = strings.TrimSpace(purchaser)
	supplier := strings.TrimSpace(in.Supplier)
	validator := strings.TrimSpace(in.Validator)

	if !model.IsValidAddress(purchaser) {
		return domainErrors.ErrInvalidAccount
	}
	if !model.IsValidAddress(supplier) {
		return domainErrors.ErrInvalidSupplier
	}
	if !model.IsValidAddress(validator) {
		return domainErrors.ErrInvalidValidator
	}
	if !ValidateAmount(strings.TrimSpace(in.Amount)) {
		return domainErrors.ErrInvalidAmount
	}
	if model.SameAddress(supplier, purchaser) {
		return domainErrors.ErrSupplierIsPurchaser
	}
	if model.SameAddress(validator, purchaser) {
		return domainErrors.ErrValidatorIsPurchaser
	}
	return nil
}
