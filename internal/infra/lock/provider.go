package lock

import (
	"context"
	"log/slog"

	"basket/config"
	"basket/internal/domain/service"
	"basket/internal/errors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

// LockerParams holds dependencies for the CartLocker, injected by Fx.
type LockerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewCartLocker picks the Redis lock when redis.addr is set and the
// in-process lock otherwise.
func NewCartLocker(params LockerParams) (service.CartLocker, error) {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Addr == "" {
		params.Logger.Info("Redis not configured, using in-process cart lock")

		wait := defaultLockWait
		if cfg != nil && cfg.LockWait > 0 {
			wait = cfg.LockWait
		}

		return NewMemoryLocker(wait), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrapf(err, "failed to reach redis at %s", cfg.Addr)
			}
			params.Logger.Info("Redis cart lock ready", slog.String("addr", cfg.Addr))

			return nil
		},
		OnStop: func(context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return NewRedisLocker(client, cfg.LockTTL, cfg.LockWait), nil
}

// Module provides the cart locker FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewCartLocker),
)
