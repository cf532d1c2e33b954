package contract

import "errors"

var (
	ErrUnsupportedAction = errors.New("unsupported contract action")
	ErrReverted          = errors.New("contract call reverted")
	ErrTxMismatch        = errors.New("transaction does not match call")
	ErrTxHashRequired    = errors.New("transaction hash required")
	ErrReceiptTimeout    = errors.New("timed out waiting for receipt")
)
