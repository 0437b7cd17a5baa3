package consumers

import (
	"context"
	"encoding/json"

	"github.com/Behyna/paygw/internal/service"
	"github.com/Behyna/paygw/pkg/mq"
	"go.uber.org/zap"
)

type DeliveryConsumer interface {
	Consume(ctx context.Context) error
}

type deliveryConsumer struct {
	service  service.DeliveryService
	consumer mq.Consumer
	queue    string
	prefetch int
	logger   *zap.Logger
}

func NewDeliveryConsumer(service service.DeliveryService, consumer mq.Consumer, queue string, prefetch int,
	logger *zap.Logger) DeliveryConsumer {
	return &deliveryConsumer{
		service:  service,
		consumer: consumer,
		queue:    queue,
		prefetch: prefetch,
		logger:   logger,
	}
}

func (d *deliveryConsumer) Consume(ctx context.Context) error {
	return d.consumer.Consume(ctx, d.prefetch, d.queue, d.handleMessage)
}

func (d *deliveryConsumer) handleMessage(ctx context.Context, body []byte) error {
	d.logger.Info("received deliver command", zap.ByteString("body", body))

	var cmd service.DeliverOrderCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		// Not temporary, so the broker drops it.
		d.logger.Warn("invalid deliver command", zap.Error(err))
		return err
	}

	return d.service.Deliver(ctx, cmd)
}
