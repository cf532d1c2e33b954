package contract

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/config"
)

// Module exposes the contract client selected by CONTRACT_MODE.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	switch p.Config.ContractMode {
	case config.ContractSimulated, "":
		p.Logger.Info("using simulated escrow contract", slog.Duration("delay", p.Config.SimulatedCallDelay))
		return NewSimulated(p.Config.SimulatedCallDelay), nil
	case config.ContractEVM:
		rpc, err := DialEVMClient(p.Config.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("dial rpc: %w", err)
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				rpc.Close()
				return nil
			},
		})
		p.Logger.Info("using evm escrow contract",
			slog.String("rpc", p.Config.RPCURL),
			slog.String("escrow", p.Config.EscrowAddress),
		)
		return NewEVM(rpc, EVMOptions{
			ChainID:        p.Config.ChainID,
			Token:          p.Config.TokenAddress,
			Escrow:         p.Config.EscrowAddress,
			ReceiptTimeout: p.Config.ReceiptTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported contract mode: %s", p.Config.ContractMode)
	}
}
