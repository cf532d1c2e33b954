package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/adapter/contract"
	"github.com/polkiloo/escrowdesk/internal/adapter/events"
	"github.com/polkiloo/escrowdesk/internal/app"
	"github.com/polkiloo/escrowdesk/internal/config"
	"github.com/polkiloo/escrowdesk/internal/logger"
	"github.com/polkiloo/escrowdesk/internal/metrics"
	"github.com/polkiloo/escrowdesk/internal/pkg/auth"
	"github.com/polkiloo/escrowdesk/internal/server/http/handlers"
	"github.com/polkiloo/escrowdesk/internal/server/http/router"
	"github.com/polkiloo/escrowdesk/internal/storage"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

// Module assembles the full application graph. Extra options are appended
// last so tests can swap infrastructure with fx.Replace.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		storage.Module,
		contract.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(f *app.EscrowFacade) handlers.EscrowFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
