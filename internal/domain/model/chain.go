package model

import "time"

// ChainOrder mirrors the escrow contract order record.
type ChainOrder struct {
	ID        uint64
	Purchaser string
	Supplier  string
	Validator string
	Amount    string
	State     OrderState
}

// CreateCall describes an order creation submitted to the escrow contract.
type CreateCall struct {
	Caller    string
	Supplier  string
	Validator string
	Amount    string
	TxHash    string
}

// ActionCall describes a state changing call for an existing contract order.
type ActionCall struct {
	Caller       string
	ChainOrderID uint64
	TxHash       string
}

// TokenBalance holds account balance of the escrowed token.
type TokenBalance struct {
	Account string
	Amount  string
	Symbol  string
}

// EventType names order lifecycle events.
type EventType string

const (
	EventOrderCreated      EventType = "order.created"
	EventDeliveryConfirmed EventType = "order.delivery_confirmed"
	EventFundsWithdrawn    EventType = "order.funds_withdrawn"
	EventOrderCancelled    EventType = "order.cancelled"
	EventOrderSynced       EventType = "order.synced"
)

// EventForAction maps an action to the event emitted after it commits.
func EventForAction(action Action) EventType {
	switch action {
	case ActionConfirmDelivery:
		return EventDeliveryConfirmed
	case ActionWithdrawFunds:
		return EventFundsWithdrawn
	case ActionCancelOrder:
		return EventOrderCancelled
	default:
		return EventOrderSynced
	}
}

// OrderEvent is published after an order mutation is committed.
type OrderEvent struct {
	Type       EventType  `json:"type"`
	OrderID    string     `json:"orderId"`
	ChainID    *uint64    `json:"chainOrderId,omitempty"`
	Account    string     `json:"account,omitempty"`
	Role       Role       `json:"role,omitempty"`
	State      OrderState `json:"state"`
	OccurredAt time.Time  `json:"occurredAt"`
}
