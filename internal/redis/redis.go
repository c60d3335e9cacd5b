package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/cloudslip/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New returns a redis client, or nil when no address is configured.
// Consumers treat a nil client as "cache disabled".
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *goredis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis disabled, no address configured")
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis ping failed, continuing without cache", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

var Module = fx.Module("redis",
	fx.Provide(New),
)
