package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/config"
	"github.com/polkiloo/escrowdesk/internal/metrics"
	"github.com/polkiloo/escrowdesk/internal/worker"
)

const readHeaderTimeout = 10 * time.Second

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewEscrowFacade,
		newHTTPServer,
		newReconciler,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

type workerParams struct {
	fx.In

	Facade  *EscrowFacade
	Config  *config.Config
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

func newReconciler(p workerParams) *worker.Reconciler {
	return worker.NewReconciler(
		p.Facade,
		p.Config.ReconcileInterval,
		p.Config.ReconcileBatch,
		p.Config.WorkerPoolSize,
		p.Metrics,
		p.Logger.With(slog.String("component", "reconciler")),
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.Reconciler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Bind before returning so address conflicts fail the start.
			ln, err := net.Listen("tcp", p.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", p.Server.Addr, err)
			}
			p.Logger.Info("starting escrowdesk",
				slog.String("addr", ln.Addr().String()),
				slog.String("contract", p.Config.ContractMode),
				slog.String("storage", p.Config.StorageDriver),
				slog.Uint64("chain_id", p.Config.ChainID),
			)
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx, cancel := context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			p.Logger.Info("escrowdesk stopped")
			return nil
		},
	})
}
