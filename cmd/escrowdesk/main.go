// Command escrowdesk serves the escrow marketplace API and keeps stored
// orders reconciled with the escrow contract.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		di.Module(),
	)

	code := run(ctx, app)
	stop()
	os.Exit(code)
}
