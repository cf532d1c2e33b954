package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

const (
	purchaserA = "0x1111111111111111111111111111111111111111"
	supplierB  = "0x2222222222222222222222222222222222222222"
	validatorC = "0x3333333333333333333333333333333333333333"
)

func TestValidateAmount(t *testing.T) {
	valid := []string{"1", "0.5", "100.25", "000.1", "1000000000000000000000"}
	for _, amount := range valid {
		if !ValidateAmount(amount) {
			t.Fatalf("expected amount %q to be valid", amount)
		}
	}

	invalid := []string{"", "0", "0.0", "-1", "1.", ".5", "1e3", "abc", "1,5", " 1"}
	for _, amount := range invalid {
		if ValidateAmount(amount) {
			t.Fatalf("expected amount %q to be invalid", amount)
		}
	}
}

func TestValidateNewOrder(t *testing.T) {
	valid := model.NewOrder{Supplier: supplierB, Validator: validatorC, Amount: "100"}

	tests := []struct {
		name      string
		purchaser string
		mutate    func(*model.NewOrder)
		want      error
	}{
		{name: "valid", purchaser: purchaserA, mutate: func(*model.NewOrder) {}},
		{name: "supplier equals validator allowed", purchaser: purchaserA, mutate: func(in *model.NewOrder) { in.Validator = supplierB }},
		{name: "bad purchaser", purchaser: "0x12", mutate: func(*model.NewOrder) {}, want: domainErrors.ErrInvalidAccount},
		{name: "bad supplier", purchaser: purchaserA, mutate: func(in *model.NewOrder) { in.Supplier = "0xZZ22222222222222222222222222222222222222" }, want: domainErrors.ErrInvalidSupplier},
		{name: "bad validator", purchaser: purchaserA, mutate: func(in *model.NewOrder) { in.Validator = "3333333333333333333333333333333333333333" }, want: domainErrors.ErrInvalidValidator},
		{name: "zero amount", purchaser: purchaserA, mutate: func(in *model.NewOrder) { in.Amount = "0" }, want: domainErrors.ErrInvalidAmount},
		{name: "negative amount", purchaser: purchaserA, mutate: func(in *model.NewOrder) { in.Amount = "-5" }, want: domainErrors.ErrInvalidAmount},
		{name: "supplier is purchaser", purchaser: purchaserA, mutate: func(in *model.NewOrder) { in.Supplier = purchaserA }, want: domainErrors.ErrSupplierIsPurchaser},
		{name: "padded supplier is purchaser", purchaser: purchaserA, mutate: func(in *model.NewOrder) { in.Supplier = " " + purchaserA + "\t" }, want: domainErrors.ErrSupplierIsPurchaser},
		{name: "padded validator is purchaser", purchaser: purchaserA, mutate: func(in *model.NewOrder) { in.Validator = "  " + purchaserA }, want: domainErrors.ErrValidatorIsPurchaser},
		{name: "padded purchaser", purchaser: " " + purchaserA + " ", mutate: func(in *model.NewOrder) { in.Validator = purchaserA }, want: domainErrors.ErrValidatorIsPurchaser},
		{name: "validator is purchaser ignoring case", purchaser: "0xABCDEFabcdef0000000000000000000000000000", mutate: func(in *model.NewOrder) { in.Validator = "0xabcdefABCDEF0000000000000000000000000000" }, want: domainErrors.ErrValidatorIsPurchaser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := ValidateNewOrder(tt.purchaser, in)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !domainErrors.IsValidation(err) {
				t.Fatalf("expected validation class for %v", err)
			}
		})
	}
}
