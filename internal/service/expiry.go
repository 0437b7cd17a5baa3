package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Behyna/paygw/internal/config"
	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSweepBatchSize   = 200
	defaultSweepConcurrency = 4
)

type ExpiryService interface {
	// Sweep cancels every pending transaction whose expiry has passed. It
	// never calls the processor.
	Sweep(ctx context.Context) (SweepResult, error)
}

// SelectExpired returns the pending rows whose expiry is strictly before now.
func SelectExpired(rows []model.PaymentTransaction, now int64) []model.PaymentTransaction {
	var expired []model.PaymentTransaction
	for _, row := range rows {
		if row.Status == model.TransactionStatusPending && row.Expired(now) {
			expired = append(expired, row)
		}
	}
	return expired
}

type expiry struct {
	repo        repository.PaymentTransactionRepository
	audit       AuditRecorder
	batchSize   int
	concurrency int
	clock       Clock
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func NewExpiryService(repo repository.PaymentTransactionRepository, audit AuditRecorder, cfg *config.Config, clock Clock,
	logger *zap.Logger, metrics *metrics.Metrics) ExpiryService {
	batchSize := cfg.Sweeper.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}

	concurrency := cfg.Sweeper.Concurrency
	if concurrency <= 0 {
		concurrency = defaultSweepConcurrency
	}

	return &expiry{
		repo:        repo,
		audit:       audit,
		batchSize:   batchSize,
		concurrency: concurrency,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
	}
}

func (s *expiry) Sweep(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	now := s.clock.Millis()

	var result SweepResult
	var afterID int64
	for {
		rows, err := s.repo.FindPending(ctx, afterID, s.batchSize)
		if err != nil {
			s.logger.Error("failed to load pending transactions", zap.Int64("afterID", afterID), zap.Error(err))
			return result, NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if len(rows) == 0 {
			break
		}

		result.Scanned += len(rows)
		afterID = rows[len(rows)-1].ID

		expired, skipped, err := s.expire(ctx, SelectExpired(rows, now), now)
		result.Expired += expired
		result.Skipped += skipped
		if err != nil {
			s.logger.Error("failed to expire transactions", zap.Error(err))
			return result, NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if len(rows) < s.batchSize {
			break
		}
	}

	s.metrics.RecordSweep(result.Expired, time.Since(start))
	s.logger.Info("Sweep finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("expired", result.Expired),
		zap.Int("skipped", result.Skipped),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

func (s *expiry) expire(ctx context.Context, rows []model.PaymentTransaction, now int64) (int, int, error) {
	var expired, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, row := range rows {
		g.Go(func() error {
			err := s.repo.MarkExpired(gctx, row.ID, now, constants.PendingReasonExpired)
			if errors.Is(err, repository.ErrNoRowsAffected) {
				// Paid or renewed since it was loaded.
				skipped.Add(1)
				return nil
			}
			if err != nil {
				return err
			}

			expired.Add(1)
			s.audit.Record(ctx, AuditEntry{
				Event:           model.EventExpired,
				UserID:          row.UserID,
				MerchantOrderID: row.MerchantOrderID,
				Reference:       row.Reference,
			})
			return nil
		})
	}

	err := g.Wait()
	return int(expired.Load()), int(skipped.Load()), err
}
