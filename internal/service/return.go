package service

import (
	"context"
	"net/url"

	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/correlation"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/pkg/duitku"
	"go.uber.org/zap"
)

type ReturnService interface {
	// Resolve picks where a returning buyer goes next. It is read only.
	Resolve(ctx context.Context, query ReturnQuery) Redirect
}

type returnPoller struct {
	repo    repository.PaymentTransactionRepository
	gateway duitku.Gateway
	audit   AuditRecorder
	probe   statusProbe
	urls    URLs
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewReturnService(repo repository.PaymentTransactionRepository, gateway duitku.Gateway, audit AuditRecorder, urls URLs,
	cfg duitku.Config, logger *zap.Logger, metrics *metrics.Metrics) ReturnService {
	return &returnPoller{
		repo:    repo,
		gateway: gateway,
		audit:   audit,
		probe:   newStatusProbe(gateway, audit, metrics, cfg),
		urls:    urls,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *returnPoller) Resolve(ctx context.Context, query ReturnQuery) Redirect {
	fp := returnFingerprint(query)

	redirect := s.route(ctx, query, fp)

	s.metrics.RecordReturn(redirect.Outcome)
	s.audit.Record(ctx, AuditEntry{
		Event:           model.EventUserReturn,
		UserID:          fp.UserID,
		MerchantOrderID: query.MerchantOrderID,
		Reference:       redirect.Reference,
		Destination:     redirect.URL,
		Payload: url.Values{
			"resultCode": {query.ResultCode},
			"reference":  {query.Reference},
		},
	})

	return redirect
}

func (s *returnPoller) route(ctx context.Context, query ReturnQuery, fp correlation.Fingerprint) Redirect {
	checkout := Redirect{
		URL:             s.urls.CheckoutEntry(fp, query.Description),
		Outcome:         constants.ReturnOutcomeCheckout,
		MerchantOrderID: query.MerchantOrderID,
	}

	if query.MerchantOrderID == "" {
		return checkout
	}

	status, err := s.probe.check(ctx, fp.UserID, query.MerchantOrderID)
	if err != nil {
		s.logger.Info("return status unavailable, sending buyer to checkout",
			zap.String("merchantOrderID", query.MerchantOrderID), zap.Error(err))
		return checkout
	}

	if status.Status == duitku.StatusCanceled {
		return checkout
	}

	reference := status.Reference
	if reference == "" {
		tx, err := s.repo.FindByMerchantOrderID(ctx, query.MerchantOrderID)
		if err == nil {
			reference = tx.Reference
		}
	}

	if reference == "" {
		return checkout
	}

	return Redirect{
		URL:             s.gateway.HostedPageURL(reference),
		Outcome:         constants.ReturnOutcomeHostedPage,
		MerchantOrderID: query.MerchantOrderID,
		Reference:       reference,
	}
}

// returnFingerprint prefers what the order id encodes and falls back to the
// item fields carried on the return URL.
func returnFingerprint(query ReturnQuery) correlation.Fingerprint {
	if token, err := correlation.Decode(query.MerchantOrderID); err == nil {
		return token.Fingerprint
	}

	return correlation.Fingerprint{
		Component:   query.Component,
		PaymentArea: query.PaymentArea,
		ItemID:      query.ItemID,
	}
}
