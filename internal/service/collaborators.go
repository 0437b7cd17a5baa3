package service

import (
	"context"
	"time"
)

// PayableResolver looks up what the buyer owes for an item.
type PayableResolver interface {
	Resolve(ctx context.Context, component, paymentArea string, itemID int64) (Payable, error)
}

// EntitlementDelivery hands a paid order to the platform. It is invoked at
// most once per successful transition.
type EntitlementDelivery interface {
	Deliver(ctx context.Context, cmd DeliverOrderCommand) error
}

type NotificationSender interface {
	Notify(ctx context.Context, notification Notification) error
}

type Clock func() time.Time

func NewClock() Clock {
	return time.Now
}

func (c Clock) Millis() int64 {
	return c().UnixMilli()
}
