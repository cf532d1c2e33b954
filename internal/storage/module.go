package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/config"
	"github.com/polkiloo/escrowdesk/internal/domain/repository"
	"github.com/polkiloo/escrowdesk/internal/storage/memory"
	"github.com/polkiloo/escrowdesk/internal/storage/pebble"
	"github.com/polkiloo/escrowdesk/internal/storage/postgres"
	"github.com/polkiloo/escrowdesk/internal/storage/redis"
)

// Module wires the configured key-value driver and the order repository.
var Module = fx.Options(
	fx.Provide(NewKeyValueStore),
	fx.Provide(
		NewOrderStore,
		func(s *OrderStore) repository.OrderRepository { return s },
	),
)

type kvParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Ctx       context.Context
	Config    *config.Config
	Logger    *slog.Logger
}

// NewKeyValueStore opens the driver selected by STORAGE_DRIVER and closes it on stop.
func NewKeyValueStore(p kvParams) (repository.KeyValueStore, error) {
	kv, err := open(p.Ctx, p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("order storage ready", slog.String("driver", p.Config.StorageDriver))

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return kv.Close()
		},
	})
	return kv, nil
}

func open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.KeyValueStore, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory, "":
		return memory.New(), nil
	case config.StoragePostgres:
		return postgres.New(ctx, cfg.DatabaseURI, logger)
	case config.StorageRedis:
		return redis.New(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case config.StoragePebble:
		return pebble.Open(cfg.PebbleDir)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}
