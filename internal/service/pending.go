package service

import (
	"context"

	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/pkg/duitku"
	"go.uber.org/zap"
)

type PendingService interface {
	ListPending(ctx context.Context, userID int64) ([]PendingPayment, error)
}

type pending struct {
	repo    repository.PaymentTransactionRepository
	gateway duitku.Gateway
	clock   Clock
	logger  *zap.Logger
}

func NewPendingService(repo repository.PaymentTransactionRepository, gateway duitku.Gateway, clock Clock, logger *zap.Logger) PendingService {
	return &pending{repo: repo, gateway: gateway, clock: clock, logger: logger}
}

// ListPending returns the buyer's unpaid invoices that can still be paid.
func (s *pending) ListPending(ctx context.Context, userID int64) ([]PendingPayment, error) {
	rows, err := s.repo.FindPendingByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list pending payments", zap.Int64("userID", userID), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	now := s.clock.Millis()
	payments := make([]PendingPayment, 0, len(rows))
	for _, row := range rows {
		if row.Expired(now) || row.Reference == "" {
			continue
		}

		payments = append(payments, PendingPayment{
			TransactionID:   row.ID,
			MerchantOrderID: row.MerchantOrderID,
			Reference:       row.Reference,
			Component:       row.Component,
			PaymentArea:     row.PaymentArea,
			ItemID:          row.ItemID,
			Amount:          row.Amount,
			Currency:        row.Currency,
			PaymentURL:      s.gateway.HostedPageURL(row.Reference),
			ReferenceURL:    row.ReferenceURL,
			ExpiryAt:        row.ExpiryAt,
		})
	}

	return payments, nil
}
