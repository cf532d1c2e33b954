package dto

import "time"

// CreateOrderRequest describes order creation payload.
type CreateOrderRequest struct {
	Supplier        string `json:"supplier"`
	Validator       string `json:"validator"`
	Amount          string `json:"amount"`
	ProductName     string `json:"productName"`
	OriginCity      string `json:"originCity"`
	DestinationCity string `json:"destinationCity"`
	TxHash          string `json:"txHash"`
}

// ActionRequest describes an order action invocation.
type ActionRequest struct {
	Role   string `json:"role"`
	TxHash string `json:"txHash"`
}

// OrderResponse is an order as rendered for one role.
type OrderResponse struct {
	ID              string    `json:"id"`
	OrderNumber     int       `json:"orderNumber"`
	ChainOrderID    *uint64   `json:"chainOrderId,omitempty"`
	Purchaser       string    `json:"purchaser"`
	Supplier        string    `json:"supplier"`
	Validator       string    `json:"validator"`
	PurchaserShort  string    `json:"purchaserShort"`
	SupplierShort   string    `json:"supplierShort"`
	ValidatorShort  string    `json:"validatorShort"`
	Amount          string    `json:"amount"`
	AmountFormatted string    `json:"amountFormatted"`
	State           uint8     `json:"state"`
	StateName       string    `json:"stateName"`
	ProductName     string    `json:"productName,omitempty"`
	OriginCity      string    `json:"originCity,omitempty"`
	DestinationCity string    `json:"destinationCity,omitempty"`
	Progress        int       `json:"progress"`
	FundsWithdrawn  bool      `json:"fundsWithdrawn"`
	CreatedAt       time.Time `json:"createdAt"`
	Role            string    `json:"role"`
	Actions         []string  `json:"actions"`
}

// ActionResponse reports the outcome of a committed mutation.
type ActionResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
	TxURL   string        `json:"txUrl,omitempty"`
}
