package bootstrap

import (
	"context"

	"github.com/Behyna/paygw/internal/config"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/publishers"
	"github.com/Behyna/paygw/internal/service"
	"github.com/Behyna/paygw/pkg/duitku"
	"github.com/Behyna/paygw/pkg/httpclient"
	"github.com/Behyna/paygw/pkg/lock"
	"github.com/Behyna/paygw/pkg/mailer"
	"github.com/Behyna/paygw/pkg/mq"
	"github.com/Behyna/paygw/pkg/mysql"
	"github.com/Behyna/paygw/pkg/platform"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnectionDB(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	db, err := mysql.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err = db.Use(metrics.NewGormPlugin(m, logger)); err != nil {
		return nil, err
	}

	return db, nil
}

func NewDuitkuConfig(cfg *config.Config) duitku.Config {
	return cfg.Duitku
}

func NewGateway(cfg *config.Config) duitku.Gateway {
	client := httpclient.NewHTTPClient(cfg.Duitku.RequestTimeout())
	return duitku.NewGateway(cfg.Duitku, client)
}

func NewPlatformClient(cfg *config.Config) platform.Client {
	client := httpclient.NewHTTPClient(cfg.Platform.Timeout)
	return platform.NewClient(cfg.Platform, client)
}

func NewMailer(cfg *config.Config) (mailer.Mailer, error) {
	return mailer.NewMailer(cfg.Mailer)
}

func NewLocker(cfg *config.Config) (lock.Locker, error) {
	return lock.NewLocker(cfg.Checkout.Lock)
}

func NewURLs(cfg *config.Config) service.URLs {
	return service.NewURLs(cfg.API.PublicBaseURL, cfg.Checkout.FailureURL)
}

func NewValidate() *validator.Validate {
	return validator.New()
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewDeliveryPublisher(cfg *config.Config, publisher mq.Publisher, logger *zap.Logger) service.EntitlementDelivery {
	return publishers.NewDeliveryPublisher(publisher, cfg.Delivery.Queue, logger)
}
