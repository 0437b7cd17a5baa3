package mocks

import (
	"context"

	"github.com/Behyna/paygw/pkg/duitku"
	"github.com/stretchr/testify/mock"
)

type Gateway struct {
	mock.Mock
}

func (g *Gateway) CreateInvoice(ctx context.Context, request duitku.CreateInvoiceRequest, timestamp int64) (duitku.CreateInvoiceResponse, error) {
	args := g.Called(ctx, request, timestamp)
	return args.Get(0).(duitku.CreateInvoiceResponse), args.Error(1)
}

func (g *Gateway) CheckStatus(ctx context.Context, merchantOrderID string) (duitku.StatusResponse, error) {
	args := g.Called(ctx, merchantOrderID)
	return args.Get(0).(duitku.StatusResponse), args.Error(1)
}

// HostedPageURL is deterministic so tests do not need to stub it.
func (g *Gateway) HostedPageURL(reference string) string {
	return "https://sandbox.duitku.com/topup/v2/TopUpCreditCardPayment.aspx?reference=" + reference
}
