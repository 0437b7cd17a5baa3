package mq

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Handle func(ctx context.Context, body []byte) error

type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handle) error
}

type RabbitConsumer struct {
	ch     *amqp.Channel
	policy RetryPolicy
	logger *zap.Logger
}

func NewRabbitConsumer(ch *amqp.Channel, policy RetryPolicy, logger *zap.Logger) Consumer {
	return &RabbitConsumer{ch: ch, policy: policy.withDefaults(), logger: logger}
}

func (c *RabbitConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handle) error {
	if prefetch <= 0 {
		prefetch = 1
	}

	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}

	tag := "paygw-" + queue
	deliveries, err := c.ch.Consume(queue, tag, false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.ch.Cancel(tag, false)
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			err := handler(ctx, d.Body)
			if err == nil {
				_ = d.Ack(false)
				continue
			}

			if !ShouldRequeue(err) {
				c.logger.Warn("message handler failed, dropping",
					zap.String("queue", queue),
					zap.String("messageID", d.MessageId),
					zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}

			c.retry(ctx, queue, d, err)
		}
	}
}

// retry moves a temporarily failed delivery to the retry queue, or to the dead
// queue once its attempts are spent. The original is acked only after the
// replacement is published.
func (c *RabbitConsumer) retry(ctx context.Context, queue string, d amqp.Delivery, cause error) {
	target, msg := c.policy.Republish(queue, d)

	c.logger.Warn("message handler failed",
		zap.String("queue", queue),
		zap.String("messageID", d.MessageId),
		zap.Int("attempt", Attempt(d)),
		zap.String("target", target),
		zap.Error(cause))

	if err := c.ch.PublishWithContext(ctx, "", target, false, false, msg); err != nil {
		c.logger.Error("failed to republish message",
			zap.String("queue", queue),
			zap.String("target", target),
			zap.String("messageID", d.MessageId),
			zap.Error(err))
		_ = d.Nack(false, true)
		return
	}

	_ = d.Ack(false)
}

func ShouldRequeue(err error) bool {
	var te TempError
	return errors.As(err, &te) && te.Temporary()
}
