package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Behyna/paygw/internal/service"
	"github.com/Behyna/paygw/pkg/mq"
	"go.uber.org/zap"
)

type deliveryPublisher struct {
	publisher mq.Publisher
	queue     string
	logger    *zap.Logger
}

// NewDeliveryPublisher queues entitlement deliveries for the deliver worker.
func NewDeliveryPublisher(publisher mq.Publisher, queue string, logger *zap.Logger) service.EntitlementDelivery {
	return &deliveryPublisher{publisher: publisher, queue: queue, logger: logger}
}

func (p *deliveryPublisher) Deliver(ctx context.Context, cmd service.DeliverOrderCommand) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encoding error: %w", err)
	}

	if err := p.publisher.Publish(ctx, p.queue, body); err != nil {
		p.logger.Error("Failed to publish delivery",
			zap.String("queue", p.queue),
			zap.String("merchantOrderID", cmd.MerchantOrderID),
			zap.Error(err))
		return err
	}

	p.logger.Info("Delivery queued",
		zap.String("queue", p.queue),
		zap.String("merchantOrderID", cmd.MerchantOrderID),
		zap.Int64("paymentID", cmd.PaymentID))

	return nil
}
