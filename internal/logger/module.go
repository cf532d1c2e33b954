package logger

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/config"
)

// Module wires the slog logger at the configured level.
var Module = fx.Provide(func(cfg *config.Config) *slog.Logger {
	return New(cfg.LogLevel)
})
