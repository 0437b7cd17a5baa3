package mocks

import (
	"context"

	"github.com/Behyna/paygw/internal/service"
	"github.com/stretchr/testify/mock"
)

type CheckoutService struct {
	mock.Mock
}

func (c *CheckoutService) Checkout(ctx context.Context, cmd service.CheckoutCommand) (service.Redirect, error) {
	args := c.Called(ctx, cmd)
	return args.Get(0).(service.Redirect), args.Error(1)
}

type CallbackService struct {
	mock.Mock
}

func (c *CallbackService) Verify(ctx context.Context, req service.CallbackRequest) (service.CallbackResult, error) {
	args := c.Called(ctx, req)
	return args.Get(0).(service.CallbackResult), args.Error(1)
}

type ReturnService struct {
	mock.Mock
}

func (r *ReturnService) Resolve(ctx context.Context, query service.ReturnQuery) service.Redirect {
	args := r.Called(ctx, query)
	return args.Get(0).(service.Redirect)
}

type PendingService struct {
	mock.Mock
}

func (p *PendingService) ListPending(ctx context.Context, userID int64) ([]service.PendingPayment, error) {
	args := p.Called(ctx, userID)
	return args.Get(0).([]service.PendingPayment), args.Error(1)
}

type ExpiryService struct {
	mock.Mock
}

func (e *ExpiryService) Sweep(ctx context.Context) (service.SweepResult, error) {
	args := e.Called(ctx)
	return args.Get(0).(service.SweepResult), args.Error(1)
}

type DeliveryService struct {
	mock.Mock
}

func (d *DeliveryService) Deliver(ctx context.Context, cmd service.DeliverOrderCommand) error {
	args := d.Called(ctx, cmd)
	return args.Error(0)
}
