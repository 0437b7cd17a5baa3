package main

import (
	"context"

	"github.com/Behyna/paygw/internal/bootstrap"
	"github.com/Behyna/paygw/internal/config"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/internal/service"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,

			bootstrap.NewConnectionDB,

			repository.NewPaymentTransactionRepository,
			repository.NewRequestLogRepository,

			service.NewClock,
			service.NewAuditRecorder,
			service.NewExpiryService,

			gocron.NewScheduler,
		),
		fx.Invoke(runSweeper),
	).Run()
}

func runSweeper(cfg *config.Config, sweeper service.ExpiryService, scheduler gocron.Scheduler, logger *zap.Logger,
	lc fx.Lifecycle) error {
	appCtx, cancel := context.WithCancel(context.Background())

	_, err := scheduler.NewJob(
		gocron.DurationJob(cfg.Sweeper.Interval),
		gocron.NewTask(func() {
			if _, err := sweeper.Sweep(appCtx); err != nil {
				logger.Error("sweep failed", zap.Error(err))
			}
		}),
		gocron.WithName("expire-pending-transactions"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			logger.Info("sweeper started", zap.Duration("interval", cfg.Sweeper.Interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping sweeper")
			cancel()
			return scheduler.Shutdown()
		},
	})

	return nil
}
