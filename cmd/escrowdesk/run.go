package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run starts the graph, blocks until a signal or an fx shutdown, and returns the exit code.
func run(ctx context.Context, app *fx.App) int {
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "escrowdesk: build application: %v\n", err)
		return 1
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "escrowdesk: start: %v\n", err)
		return 1
	}

	code := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "escrowdesk: stop: %v\n", err)
		return 1
	}
	return code
}
