package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/config"
)

// Module wires the event publisher.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) Publisher {
	if !p.Config.EventsEnabled() {
		p.Logger.Info("order events disabled; using noop publisher")
		return NoopPublisher{}
	}

	pub := NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.KafkaTopic, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			p.Logger.Info("closing kafka publisher")
			return pub.Close()
		},
	})
	return pub
}
