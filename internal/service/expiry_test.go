package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/mocks"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func row(id int64, status model.TransactionStatus, expiryAt int64) model.PaymentTransaction {
	return model.PaymentTransaction{ID: id, Status: status, ExpiryAt: expiryAt, UserID: 7}
}

func TestSelectExpired(t *testing.T) {
	now := int64(10_000)
	rows := []model.PaymentTransaction{
		row(1, model.TransactionStatusPending, now-1),
		row(2, model.TransactionStatusPending, now),
		row(3, model.TransactionStatusPending, now+1),
		row(4, model.TransactionStatusSuccess, now-1),
		row(5, model.TransactionStatusCanceled, now-1),
	}

	selected := service.SelectExpired(rows, now)

	require.Len(t, selected, 1)
	assert.Equal(t, int64(1), selected[0].ID)
	assert.Empty(t, service.SelectExpired(nil, now))
}

func TestExpiry_Sweep(t *testing.T) {
	ctx := context.Background()
	now := int64(10_000)

	t.Run("cancels only pending rows past expiry", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		svc := service.NewExpiryService(repo, newAudit(), testConfig(), fixedClock(now), zap.NewNop(), newTestMetrics())

		repo.On("FindPending", ctx, int64(0), 2).Return([]model.PaymentTransaction{
			row(1, model.TransactionStatusPending, now-5),
			row(2, model.TransactionStatusPending, now+5),
		}, nil)
		repo.On("FindPending", ctx, int64(2), 2).Return([]model.PaymentTransaction{
			row(3, model.TransactionStatusPending, now-1),
		}, nil)
		repo.On("MarkExpired", mock.Anything, int64(1), now, constants.PendingReasonExpired).Return(nil)
		repo.On("MarkExpired", mock.Anything, int64(3), now, constants.PendingReasonExpired).Return(repository.ErrNoRowsAffected)

		result, err := svc.Sweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, service.SweepResult{Scanned: 3, Expired: 1, Skipped: 1}, result)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "MarkExpired", mock.Anything, int64(2), mock.Anything, mock.Anything)
	})

	t.Run("empty store", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		svc := service.NewExpiryService(repo, newAudit(), testConfig(), fixedClock(now), zap.NewNop(), newTestMetrics())

		repo.On("FindPending", ctx, int64(0), 2).Return([]model.PaymentTransaction{}, nil)

		result, err := svc.Sweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, service.SweepResult{}, result)
	})

	t.Run("store failure while loading", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		svc := service.NewExpiryService(repo, newAudit(), testConfig(), fixedClock(now), zap.NewNop(), newTestMetrics())

		repo.On("FindPending", ctx, int64(0), 2).Return([]model.PaymentTransaction(nil), errors.New("connection refused"))

		_, err := svc.Sweep(ctx)

		assert.Equal(t, constants.ErrCodeOperationFailed, service.ErrorCode(err))
	})

	t.Run("store failure while writing", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		svc := service.NewExpiryService(repo, newAudit(), testConfig(), fixedClock(now), zap.NewNop(), newTestMetrics())

		repo.On("FindPending", ctx, int64(0), 2).Return([]model.PaymentTransaction{
			row(1, model.TransactionStatusPending, now-5),
		}, nil)
		repo.On("MarkExpired", mock.Anything, int64(1), now, constants.PendingReasonExpired).Return(errors.New("deadlock"))

		result, err := svc.Sweep(ctx)

		assert.Equal(t, constants.ErrCodeOperationFailed, service.ErrorCode(err))
		assert.Equal(t, 1, result.Scanned)
		assert.Equal(t, 0, result.Expired)
	})

	t.Run("a second sweep finds nothing left to expire", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		audit := newAudit()
		svc := service.NewExpiryService(repo, audit, testConfig(), fixedClock(now), zap.NewNop(), newTestMetrics())

		repo.On("FindPending", ctx, int64(0), 2).Return([]model.PaymentTransaction{
			row(1, model.TransactionStatusPending, now-5),
		}, nil).Once()
		repo.On("MarkExpired", mock.Anything, int64(1), now, constants.PendingReasonExpired).Return(nil).Once()
		repo.On("FindPending", ctx, int64(0), 2).Return([]model.PaymentTransaction{}, nil)

		first, err := svc.Sweep(ctx)
		require.NoError(t, err)
		second, err := svc.Sweep(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, first.Expired)
		assert.Equal(t, 0, second.Expired)
		audit.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
			return e.Event == model.EventExpired && e.UserID == 7
		}))
	})
}
