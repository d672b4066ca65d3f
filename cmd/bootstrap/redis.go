package bootstrap

import (
	"context"

	"library-lending/internal/infra/cache"
	"library-lending/internal/infra/queue"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		fx.Annotate(
			cache.NewRedisStore,
			fx.As(new(cache.Store)),
		),
		fx.Annotate(
			cache.NewRedisDenylist,
			fx.As(new(cache.TokenDenylist)),
		),
		queue.NewRedisQueue,
		fx.Annotate(
			func(q *queue.RedisQueue) *queue.RedisQueue { return q },
			fx.As(new(queue.Enqueuer)),
		),
		fx.Annotate(
			func(q *queue.RedisQueue) *queue.RedisQueue { return q },
			fx.As(new(queue.Consumer)),
		),
	),
)

func NewRedisClient(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errs.Wrap(err, "failed to ping redis")
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
