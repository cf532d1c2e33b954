package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

const receiptPollInterval = 2 * time.Second

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// EVMClient defines the subset of the Ethereum RPC used by the adapter.
type EVMClient interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
	TransactionByHash(ctx context.Context, txHash common.Hash) (*gethtypes.Transaction, bool, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// DialEVMClient initialises an EVM RPC client for the provided endpoint.
func DialEVMClient(endpoint string) (*ethclient.Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("evm endpoint required")
	}
	return ethclient.Dial(trimmed)
}

// EVMOptions configures the EVM adapter.
type EVMOptions struct {
	ChainID        uint64
	Token          string
	Escrow         string
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
}

// EVM verifies wallet-submitted transactions and reads contract state over JSON-RPC.
// Transactions are signed in the browser; writes here only confirm them.
type EVM struct {
	client  EVMClient
	signer  gethtypes.Signer
	token   common.Address
	escrow  common.Address
	timeout time.Duration
	poll    time.Duration
}

// NewEVM constructs the adapter from an RPC client.
func NewEVM(client EVMClient, opts EVMOptions) (*EVM, error) {
	if client == nil {
		return nil, fmt.Errorf("evm client required")
	}
	if !common.IsHexAddress(opts.Token) || !common.IsHexAddress(opts.Escrow) {
		return nil, fmt.Errorf("token and escrow addresses required")
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = receiptPollInterval
	}
	return &EVM{
		client:  client,
		signer:  gethtypes.LatestSignerForChainID(new(big.Int).SetUint64(opts.ChainID)),
		token:   common.HexToAddress(opts.Token),
		escrow:  common.HexToAddress(opts.Escrow),
		timeout: opts.ReceiptTimeout,
		poll:    poll,
	}, nil
}

// CreateOrder confirms a createOrder transaction and returns the contract order id.
func (e *EVM) CreateOrder(ctx context.Context, call model.CreateCall) (uint64, error) {
	tx, receipt, err := e.confirm(ctx, call.TxHash, call.Caller, "createOrder")
	if err != nil {
		return 0, err
	}

	args, err := e.decodeInput("createOrder", tx.Data())
	if err != nil {
		return 0, err
	}
	decimals, err := e.decimals(ctx)
	if err != nil {
		return 0, err
	}
	want, err := ParseUnits(call.Amount, decimals)
	if err != nil {
		return 0, err
	}
	supplier, _ := args[0].(common.Address)
	validator, _ := args[1].(common.Address)
	amount, _ := args[2].(*big.Int)
	if supplier != common.HexToAddress(call.Supplier) || validator != common.HexToAddress(call.Validator) || amount == nil || amount.Cmp(want) != 0 {
		return 0, fmt.Errorf("%w: createOrder arguments differ", ErrTxMismatch)
	}

	event := escrowABI.Events["OrderCreated"]
	for _, log := range e.escrowLogs(receipt, event.ID) {
		if len(log.Topics) < 3 {
			continue
		}
		if common.BytesToAddress(log.Topics[2].Bytes()) != common.HexToAddress(call.Caller) {
			continue
		}
		id := new(big.Int).SetBytes(log.Topics[1].Bytes())
		if !id.IsUint64() {
			continue
		}
		return id.Uint64(), nil
	}
	return 0, fmt.Errorf("%w: no OrderCreated event in %s", ErrTxMismatch, tx.Hash().Hex())
}

// ConfirmDelivery confirms a confirmDelivery transaction sent by the purchaser.
func (e *EVM) ConfirmDelivery(ctx context.Context, call model.ActionCall) error {
	return e.confirmAction(ctx, call, "confirmDelivery", "DeliveryConfirmed")
}

// WithdrawFunds confirms a withdrawFunds transaction sent by the supplier.
func (e *EVM) WithdrawFunds(ctx context.Context, call model.ActionCall) error {
	return e.confirmAction(ctx, call, "withdrawFunds", "FundsWithdrawn")
}

// CancelOrder confirms a cancelOrder transaction.
func (e *EVM) CancelOrder(ctx context.Context, call model.ActionCall) error {
	return e.confirmAction(ctx, call, "cancelOrder", "OrderCanceled")
}

// GetOrder reads the contract order record.
func (e *EVM) GetOrder(ctx context.Context, id uint64) (*model.ChainOrder, error) {
	out, err := e.call(ctx, escrowABI, e.escrow, "getOrder", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("getOrder: unexpected output")
	}
	rec := *abi.ConvertType(out[0], new(orderRecord)).(*orderRecord)
	if rec.Purchaser == (common.Address{}) {
		return nil, domainErrors.ErrNotFound
	}

	decimals, err := e.decimals(ctx)
	if err != nil {
		return nil, err
	}
	return &model.ChainOrder{
		ID:        id,
		Purchaser: rec.Purchaser.Hex(),
		Supplier:  rec.Supplier.Hex(),
		Validator: rec.Validator.Hex(),
		Amount:    FormatUnits(rec.Amount, decimals),
		State:     model.OrderState(rec.State),
	}, nil
}

// Balance reads the account's token balance and the token symbol.
func (e *EVM) Balance(ctx context.Context, account string) (*model.TokenBalance, error) {
	if !common.IsHexAddress(account) {
		return nil, domainErrors.ErrInvalidAccount
	}
	out, err := e.call(ctx, tokenABI, e.token, "balanceOf", common.HexToAddress(account))
	if err != nil {
		return nil, err
	}
	raw := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)

	decimals, err := e.decimals(ctx)
	if err != nil {
		return nil, err
	}
	out, err = e.call(ctx, tokenABI, e.token, "symbol")
	if err != nil {
		return nil, err
	}
	symbol := *abi.ConvertType(out[0], new(string)).(*string)

	return &model.TokenBalance{
		Account: common.HexToAddress(account).Hex(),
		Amount:  FormatUnits(raw, decimals),
		Symbol:  symbol,
	}, nil
}

type orderRecord struct {
	Purchaser common.Address
	Supplier  common.Address
	Validator common.Address
	Amount    *big.Int
	State     uint8
}

func (e *EVM) confirmAction(ctx context.Context, call model.ActionCall, method, eventName string) error {
	tx, receipt, err := e.confirm(ctx, call.TxHash, call.Caller, method)
	if err != nil {
		return err
	}
	args, err := e.decodeInput(method, tx.Data())
	if err != nil {
		return err
	}
	id, _ := args[0].(*big.Int)
	want := new(big.Int).SetUint64(call.ChainOrderID)
	if id == nil || id.Cmp(want) != 0 {
		return fmt.Errorf("%w: %s targets another order", ErrTxMismatch, method)
	}

	event := escrowABI.Events[eventName]
	for _, log := range e.escrowLogs(receipt, event.ID) {
		if len(log.Topics) >= 2 && new(big.Int).SetBytes(log.Topics[1].Bytes()).Cmp(want) == 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: no %s event in %s", ErrTxMismatch, eventName, tx.Hash().Hex())
}

// confirm waits for the receipt and checks status, sender, target and method.
func (e *EVM) confirm(ctx context.Context, rawHash, caller, method string) (*gethtypes.Transaction, *gethtypes.Receipt, error) {
	rawHash = strings.TrimSpace(rawHash)
	if rawHash == "" {
		return nil, nil, ErrTxHashRequired
	}
	if !txHashPattern.MatchString(rawHash) {
		return nil, nil, fmt.Errorf("%w: malformed transaction hash", ErrTxMismatch)
	}
	hash := common.HexToHash(rawHash)

	receipt, err := e.waitReceipt(ctx, hash)
	if err != nil {
		return nil, nil, err
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return nil, nil, fmt.Errorf("%w: transaction %s failed", ErrReverted, hash.Hex())
	}

	tx, _, err := e.client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch transaction: %w", err)
	}
	if tx.To() == nil || *tx.To() != e.escrow {
		return nil, nil, fmt.Errorf("%w: transaction is not sent to the escrow contract", ErrTxMismatch)
	}
	sender, err := gethtypes.Sender(e.signer, tx)
	if err != nil {
		return nil, nil, fmt.Errorf("recover sender: %w", err)
	}
	if sender != common.HexToAddress(caller) {
		return nil, nil, fmt.Errorf("%w: sent by %s", ErrTxMismatch, sender.Hex())
	}
	m := escrowABI.Methods[method]
	if len(tx.Data()) < 4 || !bytes.Equal(tx.Data()[:4], m.ID) {
		return nil, nil, fmt.Errorf("%w: transaction does not call %s", ErrTxMismatch, method)
	}
	return tx, receipt, nil
}

func (e *EVM) waitReceipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	ticker := time.NewTicker(e.poll)
	defer ticker.Stop()

	for {
		receipt, err := e.client.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("fetch receipt: %w", err)
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrReceiptTimeout, hash.Hex())
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *EVM) escrowLogs(receipt *gethtypes.Receipt, topic common.Hash) []*gethtypes.Log {
	var logs []*gethtypes.Log
	for _, log := range receipt.Logs {
		if log == nil || log.Address != e.escrow || len(log.Topics) == 0 || log.Topics[0] != topic {
			continue
		}
		logs = append(logs, log)
	}
	return logs
}

func (e *EVM) decodeInput(method string, data []byte) ([]interface{}, error) {
	m := escrowABI.Methods[method]
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s input: %v", ErrTxMismatch, method, err)
	}
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("%w: %s input length", ErrTxMismatch, method)
	}
	return args, nil
}

func (e *EVM) decimals(ctx context.Context) (uint8, error) {
	out, err := e.call(ctx, tokenABI, e.token, "decimals")
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (e *EVM) call(ctx context.Context, contractABI abi.ABI, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	out, err := contractABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty output", method)
	}
	return out, nil
}

var _ Client = (*EVM)(nil)
