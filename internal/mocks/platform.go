package mocks

import (
	"context"

	"github.com/Behyna/paygw/pkg/platform"
	"github.com/stretchr/testify/mock"
)

type PlatformClient struct {
	mock.Mock
}

func (p *PlatformClient) GetPayable(ctx context.Context, component, paymentArea string, itemID int64) (platform.Payable, error) {
	args := p.Called(ctx, component, paymentArea, itemID)
	return args.Get(0).(platform.Payable), args.Error(1)
}

func (p *PlatformClient) DeliverOrder(ctx context.Context, request platform.DeliverOrderRequest) (platform.Response, error) {
	args := p.Called(ctx, request)
	return args.Get(0).(platform.Response), args.Error(1)
}
