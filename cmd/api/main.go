package main

import (
	"context"
	"time"

	"github.com/Behyna/paygw/internal/api"
	v1 "github.com/Behyna/paygw/internal/api/v1"
	"github.com/Behyna/paygw/internal/api/middleware"
	"github.com/Behyna/paygw/internal/api/validator"
	"github.com/Behyna/paygw/internal/bootstrap"
	"github.com/Behyna/paygw/internal/config"
	apperrors "github.com/Behyna/paygw/internal/errors"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/internal/service"
	"github.com/Behyna/paygw/pkg/mq"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "paygw-api"

var version = "dev"

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,

			bootstrap.NewConnectionDB,
			bootstrap.NewMQConnection,
			bootstrap.NewMQPublisher,
			bootstrap.NewDuitkuConfig,
			bootstrap.NewGateway,
			bootstrap.NewPlatformClient,
			bootstrap.NewMailer,
			bootstrap.NewLocker,
			bootstrap.NewURLs,
			bootstrap.NewValidate,
			bootstrap.NewDeliveryPublisher,

			repository.NewPaymentTransactionRepository,
			repository.NewRequestLogRepository,
			repository.NewTransactionManager,

			service.NewClock,
			service.NewAuditRecorder,
			service.NewPayableResolver,
			service.NewNotificationSender,
			service.NewCheckoutService,
			service.NewCallbackService,
			service.NewReturnService,
			service.NewPendingService,

			validator.NewXValidator,
			v1.NewHandler,
			metrics.NewCollector,
			NewFiberApp,
		),
		fx.Invoke(runAPI),
	).Run()
}

func NewFiberApp(m *metrics.Metrics, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: apperrors.ErrorHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(middleware.TrackID())
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	app.Use(middleware.HealthCheckMiddleware(serviceName))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}

func runAPI(cfg *config.Config, app *fiber.App, handler *v1.Handler, db *gorm.DB, rabbit *mq.RabbitMQ,
	collector *metrics.Collector, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repository.Migrate(db); err != nil {
				logger.Error("migration failed", zap.Error(err))
				return err
			}

			if err := rabbit.DeclareTopology(cfg.Delivery.Queue); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			collector.Start(30*time.Second, version)

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("http server exited", zap.Error(err))
				}
			}()

			logger.Info("api started", zap.String("port", cfg.API.Port), zap.String("version", version))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping api")
			collector.Stop()
			if err := app.ShutdownWithContext(ctx); err != nil {
				logger.Error("http shutdown failed", zap.Error(err))
			}
			return rabbit.Close()
		},
	})
}
