package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/correlation"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/pkg/duitku"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type CallbackService interface {
	// Verify authenticates a processor notification and applies it at most
	// once. It is the only path that marks a transaction paid.
	Verify(ctx context.Context, req CallbackRequest) (CallbackResult, error)
}

type callback struct {
	repo      repository.PaymentTransactionRepository
	txManager repository.TxManager
	delivery  EntitlementDelivery
	audit     AuditRecorder
	probe     statusProbe
	validate  *validator.Validate
	cfg       duitku.Config
	clock     Clock
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewCallbackService(repo repository.PaymentTransactionRepository, txManager repository.TxManager, gateway duitku.Gateway,
	delivery EntitlementDelivery, audit AuditRecorder, validate *validator.Validate, cfg duitku.Config, clock Clock,
	logger *zap.Logger, metrics *metrics.Metrics) CallbackService {
	return &callback{
		repo:      repo,
		txManager: txManager,
		delivery:  delivery,
		audit:     audit,
		probe:     newStatusProbe(gateway, audit, metrics, cfg),
		validate:  validate,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

func (s *callback) Verify(ctx context.Context, req CallbackRequest) (CallbackResult, error) {
	payload := parseCallback(req.Form)

	result, err := s.verify(ctx, req, payload)

	entry := AuditEntry{
		MerchantOrderID: payload.MerchantOrderID,
		Reference:       payload.Reference,
		Payload:         req.Form,
	}
	if token, decodeErr := correlation.Decode(payload.CorrelationToken); decodeErr == nil {
		entry.UserID = token.UserID
	}

	switch {
	case err != nil:
		code := ErrorCode(err)
		entry.Event = model.EventCallbackRejected
		entry.ErrorKind = code
		entry.HTTPCode = constants.GetHTTPStatus(code)
		s.metrics.RecordCallback("rejected", code)

		fields := []zap.Field{
			zap.String("merchantOrderID", payload.MerchantOrderID),
			zap.String("reference", payload.Reference),
			zap.String("code", code),
			zap.Error(err),
		}
		if errors.Is(err, ErrResultNotSuccess) {
			s.logger.Info("Callback not applicable", fields...)
		} else {
			s.logger.Warn("Callback rejected", fields...)
		}

	case result.Replayed:
		entry.Event = model.EventCallbackReplayed
		entry.HTTPCode = http.StatusOK
		s.metrics.RecordCallback("replayed", "")
		s.logger.Info("Callback replayed",
			zap.Int64("transactionID", result.TransactionID),
			zap.String("merchantOrderID", result.MerchantOrderID))

	default:
		entry.Event = model.EventCallbackApplied
		entry.HTTPCode = http.StatusOK
		s.metrics.RecordCallback("applied", "")
		s.logger.Info("Callback applied",
			zap.Int64("transactionID", result.TransactionID),
			zap.String("merchantOrderID", result.MerchantOrderID),
			zap.String("reference", result.Reference))
	}

	s.audit.Record(ctx, entry)

	return result, err
}

func (s *callback) verify(ctx context.Context, req CallbackRequest, payload CallbackPayload) (CallbackResult, error) {
	if !strings.EqualFold(req.Method, http.MethodPost) {
		return CallbackResult{}, NewServiceError(constants.ErrCodeAuth, ErrMethodNotAllowed)
	}
	if req.RawQuery != "" {
		return CallbackResult{}, NewServiceError(constants.ErrCodeAuth, ErrUnexpectedQuery)
	}
	if len(req.Form) == 0 {
		return CallbackResult{}, NewServiceError(constants.ErrCodeAuth, ErrEmptyBody)
	}

	if err := s.validate.Struct(payload); err != nil {
		return CallbackResult{}, NewServiceError(constants.ErrCodeValidation, err)
	}

	token, err := correlation.Decode(payload.CorrelationToken)
	if err != nil {
		return CallbackResult{}, NewServiceError(constants.ErrCodeFormat, err)
	}

	if payload.ResultCode != string(duitku.StatusSuccess) {
		return CallbackResult{}, NewServiceError(constants.ErrCodeValidation, ErrResultNotSuccess)
	}

	if payload.MerchantCode != s.cfg.MerchantCode {
		return CallbackResult{}, NewServiceError(constants.ErrCodeSignature, ErrMerchantMismatch)
	}
	expected := duitku.CallbackSignature(payload.MerchantCode, payload.Amount, payload.MerchantOrderID, s.cfg.APIKey)
	if !duitku.SignatureEqual(expected, payload.Signature) {
		return CallbackResult{}, NewServiceError(constants.ErrCodeSignature, ErrSignatureMismatch)
	}

	if payload.CorrelationToken != payload.MerchantOrderID {
		return CallbackResult{}, NewServiceError(constants.ErrCodeValidation, ErrTokenMismatch)
	}

	// The notification alone is never trusted; the processor must confirm it.
	status, err := s.probe.check(ctx, token.UserID, payload.MerchantOrderID)
	if err != nil {
		return CallbackResult{}, NewServiceError(constants.ErrCodeUnverified, err)
	}
	if status.Status != duitku.StatusSuccess {
		return CallbackResult{}, NewServiceError(constants.ErrCodeUnverified, ErrPaymentNotVerified)
	}

	return s.apply(ctx, token, payload)
}

func (s *callback) apply(ctx context.Context, token correlation.Token, payload CallbackPayload) (CallbackResult, error) {
	tx, err := s.repo.FindByReference(ctx, payload.Reference)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return CallbackResult{}, NewServiceError(constants.ErrCodeConsistency, ErrUnknownReference)
		}
		return CallbackResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	result := CallbackResult{
		TransactionID:   tx.ID,
		MerchantOrderID: tx.MerchantOrderID,
		Reference:       tx.Reference,
	}

	if tx.Status == model.TransactionStatusSuccess {
		result.Replayed = true
		return result, nil
	}

	if tx.MerchantOrderID != payload.MerchantOrderID || tx.Fingerprint() != token.Fingerprint {
		return CallbackResult{}, NewServiceError(constants.ErrCodeConsistency, ErrTransactionMismatch)
	}

	if tx.Status == model.TransactionStatusCanceled {
		return CallbackResult{}, NewServiceError(constants.ErrCodeConsistency, ErrTransactionCanceled)
	}

	now := s.clock.Millis()
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.MarkSuccess(ctx, tx.ID, now, constants.PendingReasonPaid); err != nil {
			return err
		}

		return s.delivery.Deliver(ctx, DeliverOrderCommand{
			MerchantOrderID: tx.MerchantOrderID,
			Component:       tx.Component,
			PaymentArea:     tx.PaymentArea,
			ItemID:          tx.ItemID,
			PaymentID:       tx.ID,
			UserID:          tx.UserID,
		})
	})

	if err == nil {
		return result, nil
	}

	if !errors.Is(err, repository.ErrNoRowsAffected) {
		s.logger.Error("failed to apply callback",
			zap.Int64("transactionID", tx.ID),
			zap.String("merchantOrderID", tx.MerchantOrderID),
			zap.Error(err))
		return CallbackResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	// Lost the race to a concurrent apply of the same notification.
	current, findErr := s.repo.FindByReference(ctx, payload.Reference)
	if findErr == nil && current.Status == model.TransactionStatusSuccess {
		result.Replayed = true
		return result, nil
	}

	return CallbackResult{}, NewServiceError(constants.ErrCodeConsistency, ErrStaleTransaction)
}

func parseCallback(form url.Values) CallbackPayload {
	token := form.Get("correlationToken")
	if token == "" {
		token = form.Get("additionalParam")
	}

	return CallbackPayload{
		MerchantCode:     form.Get("merchantCode"),
		Amount:           form.Get("amount"),
		MerchantOrderID:  form.Get("merchantOrderId"),
		ProductDetail:    form.Get("productDetail"),
		CorrelationToken: token,
		PaymentCode:      form.Get("paymentCode"),
		ResultCode:       form.Get("resultCode"),
		Reference:        form.Get("reference"),
		Signature:        form.Get("signature"),
	}
}
