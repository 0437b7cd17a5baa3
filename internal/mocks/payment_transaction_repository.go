package mocks

import (
	"context"

	"github.com/Behyna/paygw/internal/correlation"
	"github.com/Behyna/paygw/internal/model"
	"github.com/stretchr/testify/mock"
)

type PaymentTransactionRepository struct {
	mock.Mock
}

func (r *PaymentTransactionRepository) Create(ctx context.Context, tx *model.PaymentTransaction) error {
	args := r.Called(ctx, tx)
	return args.Error(0)
}

func (r *PaymentTransactionRepository) FindLatestByFingerprint(ctx context.Context, fp correlation.Fingerprint) (*model.PaymentTransaction, error) {
	args := r.Called(ctx, fp)
	return args.Get(0).(*model.PaymentTransaction), args.Error(1)
}

func (r *PaymentTransactionRepository) FindByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	args := r.Called(ctx, reference)
	return args.Get(0).(*model.PaymentTransaction), args.Error(1)
}

func (r *PaymentTransactionRepository) FindByMerchantOrderID(ctx context.Context, merchantOrderID string) (*model.PaymentTransaction, error) {
	args := r.Called(ctx, merchantOrderID)
	return args.Get(0).(*model.PaymentTransaction), args.Error(1)
}

func (r *PaymentTransactionRepository) FindPendingByUser(ctx context.Context, userID int64) ([]model.PaymentTransaction, error) {
	args := r.Called(ctx, userID)
	return args.Get(0).([]model.PaymentTransaction), args.Error(1)
}

func (r *PaymentTransactionRepository) FindPending(ctx context.Context, afterID int64, limit int) ([]model.PaymentTransaction, error) {
	args := r.Called(ctx, afterID, limit)
	return args.Get(0).([]model.PaymentTransaction), args.Error(1)
}

func (r *PaymentTransactionRepository) Renew(ctx context.Context, tx *model.PaymentTransaction, previousOrderID string) error {
	args := r.Called(ctx, tx, previousOrderID)
	return args.Error(0)
}

func (r *PaymentTransactionRepository) MarkSuccess(ctx context.Context, id int64, now int64, reason string) error {
	args := r.Called(ctx, id, now, reason)
	return args.Error(0)
}

func (r *PaymentTransactionRepository) MarkExpired(ctx context.Context, id int64, now int64, reason string) error {
	args := r.Called(ctx, id, now, reason)
	return args.Error(0)
}
