package auth

import (
	"github.com/polkiloo/escrowdesk/internal/config"
	"go.uber.org/fx"
)

// Module provides session token primitives via fx.
var Module = fx.Options(
	fx.Provide(newTokenStrategy),
)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewJWTStrategy(p.Config.SessionSecret, Options{TTL: p.Config.SessionTTL})
}
