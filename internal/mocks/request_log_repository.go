package mocks

import (
	"context"

	"github.com/Behyna/paygw/internal/model"
	"github.com/stretchr/testify/mock"
)

type RequestLogRepository struct {
	mock.Mock
}

func (r *RequestLogRepository) Create(ctx context.Context, log *model.RequestLog) error {
	args := r.Called(ctx, log)
	return args.Error(0)
}

func (r *RequestLogRepository) FindByMerchantOrderID(ctx context.Context, merchantOrderID string) ([]model.RequestLog, error) {
	args := r.Called(ctx, merchantOrderID)
	return args.Get(0).([]model.RequestLog), args.Error(1)
}
