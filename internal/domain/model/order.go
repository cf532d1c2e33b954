package model

import (
	"strings"
	"time"
)

// OrderState describes escrow order lifecycle. Values match the escrow contract enum.
type OrderState uint8

const (
	OrderStatePending OrderState = iota
	OrderStateDelivered
	OrderStateCancelled
)

// String returns a human readable state name.
func (s OrderState) String() string {
	switch s {
	case OrderStatePending:
		return "Pending"
	case OrderStateDelivered:
		return "Delivered"
	case OrderStateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Valid reports whether the value is a known state.
func (s OrderState) Valid() bool {
	return s <= OrderStateCancelled
}

// Terminal reports whether no further state change is possible.
func (s OrderState) Terminal() bool {
	return s == OrderStateDelivered || s == OrderStateCancelled
}

// Role is the capacity under which an account views and acts on orders.
type Role string

const (
	RolePurchaser Role = "purchaser"
	RoleSupplier  Role = "supplier"
	RoleValidator Role = "validator"
)

// Roles lists every role in display order.
var Roles = []Role{RolePurchaser, RoleSupplier, RoleValidator}

// ParseRole converts raw input into a Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RolePurchaser:
		return RolePurchaser, true
	case RoleSupplier:
		return RoleSupplier, true
	case RoleValidator:
		return RoleValidator, true
	default:
		return "", false
	}
}

// Action names an operation a role can invoke on an order.
type Action string

const (
	ActionConfirmDelivery Action = "confirmDelivery"
	ActionWithdrawFunds   Action = "withdrawFunds"
	ActionCancelOrder     Action = "cancelOrder"
)

// ParseAction converts raw input into an Action.
func ParseAction(raw string) (Action, bool) {
	switch a := Action(strings.TrimSpace(raw)); a {
	case ActionConfirmDelivery, ActionWithdrawFunds, ActionCancelOrder:
		return a, true
	default:
		return "", false
	}
}

// Order is one escrow agreement between purchaser, supplier and validator.
type Order struct {
	ID              string     `json:"id"`
	OrderNumber     int        `json:"orderNumber"`
	ChainOrderID    *uint64    `json:"chainOrderId,omitempty"`
	Purchaser       string     `json:"purchaser"`
	Supplier        string     `json:"supplier"`
	Validator       string     `json:"validator"`
	Amount          string     `json:"amount"`
	State           OrderState `json:"state"`
	ProductName     string     `json:"productName,omitempty"`
	OriginCity      string     `json:"originCity,omitempty"`
	DestinationCity string     `json:"destinationCity,omitempty"`
	Progress        int        `json:"progress"`
	FundsWithdrawn  bool       `json:"fundsWithdrawn,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// AddressFor returns the order party bound to role.
func (o Order) AddressFor(role Role) string {
	switch role {
	case RolePurchaser:
		return o.Purchaser
	case RoleSupplier:
		return o.Supplier
	case RoleValidator:
		return o.Validator
	default:
		return ""
	}
}

// Participants returns the distinct lowercased accounts taking part in the order.
func (o Order) Participants() []string {
	seen := make(map[string]struct{}, 3)
	result := make([]string, 0, 3)
	for _, addr := range []string{o.Purchaser, o.Supplier, o.Validator} {
		key := AccountKey(addr)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, key)
	}
	return result
}

// NewOrder carries user supplied fields for order creation.
type NewOrder struct {
	Supplier        string
	Validator       string
	Amount          string
	ProductName     string
	OriginCity      string
	DestinationCity string
	TxHash          string
}
