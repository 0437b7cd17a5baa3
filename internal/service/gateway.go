package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/pkg/duitku"
)

// statusProbe wraps transactionStatus calls with audit and metrics. Every
// flow that asks the processor about an order goes through it.
type statusProbe struct {
	gateway  duitku.Gateway
	audit    AuditRecorder
	metrics  *metrics.Metrics
	endpoint string
}

func newStatusProbe(gateway duitku.Gateway, audit AuditRecorder, m *metrics.Metrics, cfg duitku.Config) statusProbe {
	return statusProbe{gateway: gateway, audit: audit, metrics: m, endpoint: cfg.StatusEndpoint()}
}

func (p statusProbe) check(ctx context.Context, userID int64, merchantOrderID string) (duitku.StatusResponse, error) {
	start := time.Now()
	resp, err := p.gateway.CheckStatus(ctx, merchantOrderID)
	p.metrics.RecordGatewayCall("transaction_status", gatewayCallStatus(err), time.Since(start))

	entry := AuditEntry{
		Event:           model.EventStatusChecked,
		UserID:          userID,
		MerchantOrderID: merchantOrderID,
		Destination:     p.endpoint,
	}

	switch {
	case err == nil:
		entry.HTTPCode = http.StatusOK
		entry.Reference = resp.Reference
		entry.Payload = resp.Raw
	case errors.Is(err, duitku.ErrOrderNotFound):
		entry.HTTPCode = http.StatusNotFound
		entry.ErrorKind = "ORDER_NOT_FOUND"
	default:
		entry.ErrorKind = constants.ErrCodeGateway
		entry.Payload = err.Error()
	}
	p.audit.Record(ctx, entry)

	return resp, err
}

func gatewayCallStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, duitku.ErrOrderNotFound):
		return "not_found"
	case errors.Is(err, duitku.ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}
