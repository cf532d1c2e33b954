package logger

import (
	"context"
	"log/slog"
	"testing"

	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/config"
)

func TestModuleProvidesLogger(t *testing.T) {
	var resolved *slog.Logger
	app := fx.New(
		fx.NopLogger,
		fx.Supply(&config.Config{LogLevel: "debug"}),
		Module,
		fx.Populate(&resolved),
	)
	t.Cleanup(func() { _ = app.Stop(context.Background()) })
	if err := app.Err(); err != nil {
		t.Fatalf("fx app failed: %v", err)
	}
	if resolved == nil {
		t.Fatal("expected logger to be populated")
	}
	if !resolved.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level from config")
	}
}
