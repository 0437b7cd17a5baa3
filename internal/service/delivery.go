package service

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/paygw/internal/config"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/pkg/mq"
	"github.com/Behyna/paygw/pkg/platform"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// DeliveryService completes a queued delivery against the platform.
type DeliveryService interface {
	Deliver(ctx context.Context, cmd DeliverOrderCommand) error
}

type delivery struct {
	repo           repository.PaymentTransactionRepository
	platform       platform.Client
	maxElapsedTime time.Duration
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

func NewDeliveryService(repo repository.PaymentTransactionRepository, platform platform.Client, cfg *config.Config,
	logger *zap.Logger, metrics *metrics.Metrics) DeliveryService {
	return &delivery{
		repo:           repo,
		platform:       platform,
		maxElapsedTime: cfg.Delivery.MaxElapsedTime,
		logger:         logger,
		metrics:        metrics,
	}
}

func (s *delivery) Deliver(ctx context.Context, cmd DeliverOrderCommand) error {
	tx, err := s.repo.FindByMerchantOrderID(ctx, cmd.MerchantOrderID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			s.logger.Warn("Dropping delivery for unknown transaction", zap.String("merchantOrderID", cmd.MerchantOrderID))
			s.metrics.RecordDelivery("dropped")
			return nil
		}
		return mq.Temporary(err)
	}

	switch tx.Status {
	case model.TransactionStatusSuccess:
	case model.TransactionStatusPending:
		// The apply that queued this may not have committed yet.
		return mq.Temporary(ErrStaleTransaction)
	default:
		s.logger.Warn("Dropping delivery for unpaid transaction",
			zap.String("merchantOrderID", cmd.MerchantOrderID),
			zap.String("status", string(tx.Status)))
		s.metrics.RecordDelivery("dropped")
		return nil
	}

	request := platform.DeliverOrderRequest{
		Component:   tx.Component,
		PaymentArea: tx.PaymentArea,
		ItemID:      tx.ItemID,
		PaymentID:   tx.ID,
		UserID:      tx.UserID,
	}

	_, err = backoff.Retry(ctx, func() (platform.Response, error) {
		resp, err := s.platform.DeliverOrder(ctx, request)
		switch {
		case err == nil, errors.Is(err, platform.ErrAlreadyDelivered):
			return resp, nil
		case errors.Is(err, platform.ErrValidationFailed), errors.Is(err, platform.ErrPayableNotFound):
			return resp, backoff.Permanent(err)
		default:
			return resp, err
		}
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(s.maxElapsedTime))

	if err == nil {
		s.metrics.RecordDelivery("delivered")
		s.logger.Info("Order delivered",
			zap.Int64("paymentID", tx.ID),
			zap.String("merchantOrderID", tx.MerchantOrderID),
			zap.Int64("userID", tx.UserID))
		return nil
	}

	if errors.Is(err, platform.ErrValidationFailed) || errors.Is(err, platform.ErrPayableNotFound) {
		s.metrics.RecordDelivery("rejected")
		s.logger.Error("Platform rejected delivery",
			zap.Int64("paymentID", tx.ID),
			zap.String("merchantOrderID", tx.MerchantOrderID),
			zap.Error(err))
		return nil
	}

	s.metrics.RecordDelivery("retry")
	s.logger.Warn("Delivery failed, will retry",
		zap.Int64("paymentID", tx.ID),
		zap.String("merchantOrderID", tx.MerchantOrderID),
		zap.Error(err))
	return mq.Temporary(err)
}
