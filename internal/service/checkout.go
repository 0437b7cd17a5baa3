package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Behyna/paygw/internal/config"
	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/correlation"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/pkg/duitku"
	"github.com/Behyna/paygw/pkg/lock"
	"go.uber.org/zap"
)

type CheckoutService interface {
	// Checkout decides whether the buyer gets a new invoice, the one already
	// in flight, or a renewed one. On error the redirect still points at the
	// failure page.
	Checkout(ctx context.Context, cmd CheckoutCommand) (Redirect, error)
}

type checkout struct {
	repo     repository.PaymentTransactionRepository
	gateway  duitku.Gateway
	payables PayableResolver
	notifier NotificationSender
	locker   lock.Locker
	audit    AuditRecorder
	probe    statusProbe
	urls     URLs
	cfg      *config.Config
	clock    Clock
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewCheckoutService(repo repository.PaymentTransactionRepository, gateway duitku.Gateway, payables PayableResolver,
	notifier NotificationSender, locker lock.Locker, audit AuditRecorder, urls URLs, cfg *config.Config, clock Clock,
	logger *zap.Logger, metrics *metrics.Metrics) CheckoutService {
	return &checkout{
		repo:     repo,
		gateway:  gateway,
		payables: payables,
		notifier: notifier,
		locker:   locker,
		audit:    audit,
		probe:    newStatusProbe(gateway, audit, metrics, cfg.Duitku),
		urls:     urls,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *checkout) Checkout(ctx context.Context, cmd CheckoutCommand) (Redirect, error) {
	start := time.Now()

	redirect, err := s.checkout(ctx, cmd)
	if err != nil {
		code := ErrorCode(err)
		s.metrics.RecordCheckout(constants.CheckoutOutcomeFailed, code)
		s.logger.Warn("Checkout failed",
			zap.String("fingerprint", cmd.Fingerprint.Key()),
			zap.String("code", code),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))

		return Redirect{URL: s.urls.Failure(), Outcome: constants.CheckoutOutcomeFailed}, err
	}

	s.metrics.RecordCheckout(redirect.Outcome, "")
	s.logger.Info("Checkout resolved",
		zap.String("fingerprint", cmd.Fingerprint.Key()),
		zap.String("outcome", redirect.Outcome),
		zap.String("merchantOrderID", redirect.MerchantOrderID),
		zap.String("reference", redirect.Reference),
		zap.Duration("duration", time.Since(start)))

	return redirect, nil
}

func (s *checkout) checkout(ctx context.Context, cmd CheckoutCommand) (Redirect, error) {
	payable, amount, err := s.resolve(ctx, cmd.Fingerprint)
	if err != nil {
		return Redirect{}, err
	}

	lease, err := s.locker.Acquire(ctx, cmd.Fingerprint.Key())
	if err != nil {
		return Redirect{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release checkout lock",
				zap.String("fingerprint", cmd.Fingerprint.Key()), zap.Error(err))
		}
	}()

	latest, err := s.repo.FindLatestByFingerprint(ctx, cmd.Fingerprint)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return s.create(ctx, cmd, payable, amount)
		}
		return Redirect{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if latest.Status == model.TransactionStatusSuccess {
		return s.create(ctx, cmd, payable, amount)
	}

	status, err := s.probe.check(ctx, latest.UserID, latest.MerchantOrderID)
	expired := latest.Expired(s.clock.Millis())

	switch {
	case errors.Is(err, duitku.ErrOrderNotFound):
		return s.renew(ctx, cmd, latest, payable, amount)

	case err != nil:
		if !expired && latest.Reference != "" {
			s.logger.Warn("status check failed, resuming stored invoice",
				zap.String("merchantOrderID", latest.MerchantOrderID), zap.Error(err))
			return s.resume(latest), nil
		}
		return Redirect{}, NewServiceError(constants.ErrCodeGateway, err)

	case status.Status == duitku.StatusSuccess:
		return s.create(ctx, cmd, payable, amount)

	case status.Status == duitku.StatusPending && !expired:
		return s.resume(latest), nil

	default:
		return s.renew(ctx, cmd, latest, payable, amount)
	}
}

func (s *checkout) resolve(ctx context.Context, fp correlation.Fingerprint) (Payable, int64, error) {
	payable, err := s.payables.Resolve(ctx, fp.Component, fp.PaymentArea, fp.ItemID)
	if err != nil {
		if errors.Is(err, ErrPayableUnavailable) {
			return Payable{}, 0, NewServiceError(constants.ErrCodeOperationFailed, err)
		}
		return Payable{}, 0, NewServiceError(constants.ErrCodeValidation, err)
	}

	if !s.cfg.Checkout.SupportsCurrency(payable.Currency) {
		return Payable{}, 0, NewServiceError(constants.ErrCodeValidation,
			fmt.Errorf("%w: %s", ErrUnsupportedCurrency, payable.Currency))
	}

	// IDR has no minor unit.
	amount := payable.Amount.Round(0).IntPart()
	if amount <= 0 {
		return Payable{}, 0, NewServiceError(constants.ErrCodeValidation, ErrInvalidAmount)
	}

	return payable, amount, nil
}

func (s *checkout) resume(tx *model.PaymentTransaction) Redirect {
	return Redirect{
		URL:             s.gateway.HostedPageURL(tx.Reference),
		Outcome:         constants.CheckoutOutcomeResumed,
		MerchantOrderID: tx.MerchantOrderID,
		Reference:       tx.Reference,
	}
}

func (s *checkout) create(ctx context.Context, cmd CheckoutCommand, payable Payable, amount int64) (Redirect, error) {
	now := s.clock.Millis()

	orderID, err := correlation.Encode(cmd.Fingerprint, now)
	if err != nil {
		return Redirect{}, NewServiceError(constants.ErrCodeValidation, err)
	}

	invoice, err := s.requestInvoice(ctx, cmd, orderID, amount, now)
	if err != nil {
		return Redirect{}, err
	}

	tx := model.PaymentTransaction{
		MerchantOrderID: orderID,
		Component:       cmd.Fingerprint.Component,
		PaymentArea:     cmd.Fingerprint.PaymentArea,
		ItemID:          cmd.Fingerprint.ItemID,
		UserID:          cmd.Fingerprint.UserID,
		AccountID:       payable.AccountID,
		Amount:          amount,
		Currency:        payable.Currency,
		Reference:       invoice.Reference,
		ReferenceURL:    s.urls.Reference(orderID, cmd.Fingerprint, cmd.Description),
		Signature:       invoice.Signature,
		Status:          model.TransactionStatusPending,
		PendingReason:   constants.PendingReasonAwaitingPayment,
		ExpiryAt:        now + s.cfg.Duitku.ExpiryMillis(),
		TimeUpdated:     now,
		CreatedAt:       now,
	}

	if err := s.repo.Create(ctx, &tx); err != nil {
		s.logger.Error("failed to store new transaction",
			zap.String("merchantOrderID", orderID),
			zap.String("reference", invoice.Reference),
			zap.Error(err))
		return Redirect{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.notify(ctx, cmd, tx)

	return Redirect{
		URL:             invoice.PaymentURL,
		Outcome:         constants.CheckoutOutcomeCreated,
		MerchantOrderID: orderID,
		Reference:       invoice.Reference,
	}, nil
}

// renew replaces an unpaid attempt with a fresh invoice on the same row.
func (s *checkout) renew(ctx context.Context, cmd CheckoutCommand, latest *model.PaymentTransaction, payable Payable, amount int64) (Redirect, error) {
	now := s.clock.Millis()

	orderID, err := correlation.Encode(cmd.Fingerprint, now)
	if err != nil {
		return Redirect{}, NewServiceError(constants.ErrCodeValidation, err)
	}

	invoice, err := s.requestInvoice(ctx, cmd, orderID, amount, now)
	if err != nil {
		return Redirect{}, err
	}

	renewed := *latest
	renewed.MerchantOrderID = orderID
	renewed.AccountID = payable.AccountID
	renewed.Amount = amount
	renewed.Reference = invoice.Reference
	renewed.ReferenceURL = s.urls.Reference(orderID, cmd.Fingerprint, cmd.Description)
	renewed.Signature = invoice.Signature
	renewed.Status = model.TransactionStatusPending
	renewed.PendingReason = constants.PendingReasonAwaitingPayment
	renewed.ExpiryAt = now + s.cfg.Duitku.ExpiryMillis()
	renewed.TimeUpdated = now

	if err := s.repo.Renew(ctx, &renewed, latest.MerchantOrderID); err != nil {
		s.logger.Error("failed to renew transaction",
			zap.Int64("transactionID", latest.ID),
			zap.String("previousMerchantOrderID", latest.MerchantOrderID),
			zap.String("merchantOrderID", orderID),
			zap.Error(err))

		if errors.Is(err, repository.ErrNoRowsAffected) {
			return Redirect{}, NewServiceError(constants.ErrCodeConsistency, err)
		}
		return Redirect{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.notify(ctx, cmd, renewed)

	return Redirect{
		URL:             invoice.PaymentURL,
		Outcome:         constants.CheckoutOutcomeRenewed,
		MerchantOrderID: orderID,
		Reference:       invoice.Reference,
	}, nil
}

func (s *checkout) requestInvoice(ctx context.Context, cmd CheckoutCommand, orderID string, amount, now int64) (duitku.CreateInvoiceResponse, error) {
	request := s.invoiceRequest(cmd, orderID, amount)

	start := time.Now()
	invoice, err := s.gateway.CreateInvoice(ctx, request, now)
	s.metrics.RecordGatewayCall("create_invoice", gatewayCallStatus(err), time.Since(start))

	entry := AuditEntry{
		Event:           model.EventInvoiceRequested,
		UserID:          cmd.Fingerprint.UserID,
		MerchantOrderID: orderID,
		Destination:     s.cfg.Duitku.InvoiceEndpoint(),
		Payload:         request,
	}

	if err != nil {
		entry.ErrorKind = constants.ErrCodeGateway
		s.audit.Record(ctx, entry)
		return duitku.CreateInvoiceResponse{}, NewServiceError(constants.ErrCodeGateway, err)
	}

	entry.HTTPCode = http.StatusOK
	entry.Reference = invoice.Reference
	s.audit.Record(ctx, entry)

	return invoice, nil
}

func (s *checkout) invoiceRequest(cmd CheckoutCommand, orderID string, amount int64) duitku.CreateInvoiceRequest {
	buyer := cmd.Buyer
	address := &duitku.Address{
		FirstName:   buyer.FirstName,
		LastName:    buyer.LastName,
		Address:     buyer.Address,
		City:        buyer.City,
		Phone:       buyer.Phone,
		CountryCode: buyer.Country,
	}

	return duitku.CreateInvoiceRequest{
		PaymentAmount:    amount,
		MerchantOrderID:  orderID,
		ProductDetails:   cmd.Description,
		CustomerVaName:   buyer.Username,
		MerchantUserInfo: buyer.Username,
		Email:            buyer.Email,
		PhoneNumber:      buyer.Phone,
		ItemDetails: []duitku.ItemDetail{
			{Name: cmd.Description, Price: amount, Quantity: 1},
		},
		CustomerDetail: duitku.CustomerDetail{
			FirstName:       buyer.FirstName,
			LastName:        buyer.LastName,
			Email:           buyer.Email,
			PhoneNumber:     buyer.Phone,
			BillingAddress:  address,
			ShippingAddress: address,
		},
		CallbackURL:     s.urls.Callback(),
		ReturnURL:       s.urls.Return(cmd.Fingerprint, cmd.Description),
		ExpiryPeriod:    s.cfg.Duitku.ExpiryMinutes,
		AdditionalParam: orderID,
	}
}

func (s *checkout) notify(ctx context.Context, cmd CheckoutCommand, tx model.PaymentTransaction) {
	if cmd.Buyer.Email == "" {
		return
	}

	notification := Notification{
		UserID:  tx.UserID,
		Email:   cmd.Buyer.Email,
		Subject: constants.PendingPaymentSubject,
		Body:    fmt.Sprintf(constants.PendingPaymentBody, cmd.Description, tx.ReferenceURL),
	}

	if err := s.notifier.Notify(ctx, notification); err != nil {
		s.metrics.RecordNotificationFailure()
		s.logger.Warn("failed to send pending payment notification",
			zap.Int64("userID", tx.UserID),
			zap.String("merchantOrderID", tx.MerchantOrderID),
			zap.Error(err))
	}
}
