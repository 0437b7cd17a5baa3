package mocks

import (
	"context"

	"github.com/Behyna/paygw/internal/service"
	"github.com/stretchr/testify/mock"
)

type PayableResolver struct {
	mock.Mock
}

func (p *PayableResolver) Resolve(ctx context.Context, component, paymentArea string, itemID int64) (service.Payable, error) {
	args := p.Called(ctx, component, paymentArea, itemID)
	return args.Get(0).(service.Payable), args.Error(1)
}

type EntitlementDelivery struct {
	mock.Mock
}

func (e *EntitlementDelivery) Deliver(ctx context.Context, cmd service.DeliverOrderCommand) error {
	args := e.Called(ctx, cmd)
	return args.Error(0)
}

type NotificationSender struct {
	mock.Mock
}

func (n *NotificationSender) Notify(ctx context.Context, notification service.Notification) error {
	args := n.Called(ctx, notification)
	return args.Error(0)
}

type AuditRecorder struct {
	mock.Mock
}

func (a *AuditRecorder) Record(ctx context.Context, entry service.AuditEntry) {
	a.Called(ctx, entry)
}
