package main

import (
	"context"
	"log/slog"
	"os"

	"basket/config"
	"basket/internal/delivery"
	"basket/internal/delivery/api"
	"basket/internal/delivery/api/middleware"
	"basket/internal/delivery/api/router/handler"
	"basket/internal/infra/auth"
	"basket/internal/infra/lock"
	logs "basket/internal/infra/log"
	"basket/internal/infra/persistence/memory"
	"basket/internal/infra/persistence/postgres"
	"basket/internal/infra/pubsub"
	"basket/internal/infra/qrcode"
	"basket/internal/infra/system"
	"basket/internal/usecase"
	"basket/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	fx.New(
		fx.Supply(cfg),
		injectInfra(),
		injectRepo(cfg),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			seedAdmin,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			logs.New,
			context.Background,
		),
		system.Module,
		lock.Module,
		pubsub.Module,
	)
}

// injectRepo selects the persistence backend named by storage.driver.
func injectRepo(cfg *config.Config) fx.Option {
	if cfg.StorageDriver() == config.StorageDriverMemory {
		return memory.Module
	}

	return postgres.Module
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			qrcode.NewQRCodeServiceFromConfig,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewAddressService,
			impl.NewCategoryService,
			impl.NewProductService,
			impl.NewCartService,
			impl.NewPromotionService,
			impl.NewOrderService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewAddressHandler,
			handler.NewCategoryHandler,
			handler.NewProductHandler,
			handler.NewCartHandler,
			handler.NewPromotionHandler,
			handler.NewOrderHandler,
			handler.NewUserHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// seedAdmin creates the bootstrap admin once storage is reachable.
func seedAdmin(lc fx.Lifecycle, cfg *config.Config, users usecase.UserUsecase, logger *slog.Logger) {
	seed := cfg.Seed
	if seed == nil || seed.AdminEmail == "" || seed.AdminPassword == "" {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Ensuring bootstrap admin", slog.String("email", seed.AdminEmail))

			return users.EnsureAdmin(ctx, usecase.CreateStaffInput{
				Name:     seed.AdminName,
				Email:    seed.AdminEmail,
				Password: seed.AdminPassword,
			})
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
