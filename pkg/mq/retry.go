package mq

import (
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultMaxAttempts = 10
	DefaultRetryDelay  = 30 * time.Second

	AttemptHeader = "x-attempt"
)

func RetryQueue(queue string) string { return queue + ".retry" }

func DeadQueue(queue string) string { return queue + ".dead" }

// RetryPolicy bounds redelivery of temporarily failed messages. A failed
// message waits Delay in the retry queue before returning to its work queue,
// and is parked in the dead queue once it has been handled MaxAttempts times.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Delay <= 0 {
		p.Delay = DefaultRetryDelay
	}

	return p
}

// Attempt is the 1-based number of times d has been handed to a handler.
func Attempt(d amqp.Delivery) int {
	switch n := d.Headers[AttemptHeader].(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 1
	}
}

// Republish builds the message that replaces a failed delivery, and the queue
// it goes to.
func (p RetryPolicy) Republish(queue string, d amqp.Delivery) (string, amqp.Publishing) {
	p = p.withDefaults()
	attempt := Attempt(d)

	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}

	msg := amqp.Publishing{
		Headers:      headers,
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    d.MessageId,
		Timestamp:    d.Timestamp,
		Body:         d.Body,
	}

	if attempt >= p.MaxAttempts {
		return DeadQueue(queue), msg
	}

	headers[AttemptHeader] = int32(attempt + 1)
	msg.Expiration = strconv.FormatInt(p.Delay.Milliseconds(), 10)

	return RetryQueue(queue), msg
}
