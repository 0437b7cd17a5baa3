package main

import (
	"context"

	"github.com/Behyna/paygw/internal/bootstrap"
	"github.com/Behyna/paygw/internal/config"
	"github.com/Behyna/paygw/internal/consumers"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/internal/service"
	"github.com/Behyna/paygw/pkg/mq"
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
			bootstrap.NewMQConnection,
			bootstrap.NewMQConsumer,
			bootstrap.NewPlatformClient,

			repository.NewPaymentTransactionRepository,

			service.NewDeliveryService,

			NewDeliveryConsumer,
		),
		fx.Invoke(runDeliveryConsumer),
	).Run()
}

func NewDeliveryConsumer(cfg *config.Config, deliveries service.DeliveryService, consumer mq.Consumer,
	logger *zap.Logger) consumers.DeliveryConsumer {
	return consumers.NewDeliveryConsumer(deliveries, consumer, cfg.Delivery.Queue, cfg.RabbitMQ.Prefetch, logger)
}

func runDeliveryConsumer(cfg *config.Config, deliveryConsumer consumers.DeliveryConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology(cfg.Delivery.Queue); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go func() {
				if err := deliveryConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("deliver consumer started", zap.String("queue", cfg.Delivery.Queue))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping deliver consumer")
			cancel()
			return rabbit.Close()
		},
	})
}
