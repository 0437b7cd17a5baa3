package service_test

import (
	"context"
	"testing"

	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/mocks"
	"github.com/Behyna/paygw/internal/model"
	"github.com/Behyna/paygw/internal/repository"
	"github.com/Behyna/paygw/internal/service"
	"github.com/Behyna/paygw/pkg/duitku"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const checkoutEntryURL = testPublicBase + "/api/v1/checkout?component=enrol_fee&description=Course+fee&itemid=42&paymentarea=fee"

func returnQuery() service.ReturnQuery {
	return service.ReturnQuery{
		MerchantOrderID: testOrderID,
		Reference:       "REF1",
		ResultCode:      "01",
		Component:       "enrol_fee",
		PaymentArea:     "fee",
		ItemID:          42,
		Description:     testDescription,
	}
}

func newReturnService(repo *mocks.PaymentTransactionRepository, gateway *mocks.Gateway, audit *mocks.AuditRecorder) service.ReturnService {
	return service.NewReturnService(repo, gateway, audit, testURLs(), testConfig().Duitku, zap.NewNop(), newTestMetrics())
}

func TestReturn_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("pending payment goes back to the hosted page", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		gateway := &mocks.Gateway{}
		audit := newAudit()
		gateway.On("CheckStatus", mock.Anything, testOrderID).
			Return(duitku.StatusResponse{Reference: "REF1", StatusCode: "01", Status: duitku.StatusPending}, nil)

		redirect := newReturnService(repo, gateway, audit).Resolve(ctx, returnQuery())

		assert.Equal(t, gateway.HostedPageURL("REF1"), redirect.URL)
		assert.Equal(t, constants.ReturnOutcomeHostedPage, redirect.Outcome)
		audit.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e service.AuditEntry) bool {
			return e.Event == model.EventUserReturn && e.UserID == 7 && e.Destination == redirect.URL
		}))
	})

	t.Run("paid order also lands on the hosted page", func(t *testing.T) {
		gateway := &mocks.Gateway{}
		gateway.On("CheckStatus", mock.Anything, testOrderID).
			Return(duitku.StatusResponse{Reference: "REF1", Status: duitku.StatusSuccess}, nil)

		redirect := newReturnService(&mocks.PaymentTransactionRepository{}, gateway, newAudit()).Resolve(ctx, returnQuery())

		assert.Equal(t, constants.ReturnOutcomeHostedPage, redirect.Outcome)
	})

	testCases := []struct {
		name   string
		status duitku.StatusResponse
		err    error
	}{
		{name: "canceled order", status: duitku.StatusResponse{Reference: "REF1", Status: duitku.StatusCanceled}},
		{name: "unknown order", err: duitku.ErrOrderNotFound},
		{name: "processor timeout", err: duitku.ErrTimeout},
		{name: "malformed processor answer", err: duitku.ErrMalformedResponse},
	}

	for _, tc := range testCases {
		t.Run(tc.name+" restarts checkout", func(t *testing.T) {
			repo := &mocks.PaymentTransactionRepository{}
			gateway := &mocks.Gateway{}
			gateway.On("CheckStatus", mock.Anything, testOrderID).Return(tc.status, tc.err)

			redirect := newReturnService(repo, gateway, newAudit()).Resolve(ctx, returnQuery())

			assert.Equal(t, checkoutEntryURL, redirect.URL)
			assert.Equal(t, constants.ReturnOutcomeCheckout, redirect.Outcome)
		})
	}

	t.Run("falls back to the stored reference", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		gateway := &mocks.Gateway{}
		gateway.On("CheckStatus", mock.Anything, testOrderID).
			Return(duitku.StatusResponse{Status: duitku.StatusPending}, nil)
		repo.On("FindByMerchantOrderID", mock.Anything, testOrderID).Return(pendingRow(), nil)

		redirect := newReturnService(repo, gateway, newAudit()).Resolve(ctx, returnQuery())

		assert.Equal(t, gateway.HostedPageURL("REF1"), redirect.URL)
	})

	t.Run("no reference anywhere restarts checkout", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		gateway := &mocks.Gateway{}
		gateway.On("CheckStatus", mock.Anything, testOrderID).
			Return(duitku.StatusResponse{Status: duitku.StatusPending}, nil)
		repo.On("FindByMerchantOrderID", mock.Anything, testOrderID).
			Return((*model.PaymentTransaction)(nil), repository.ErrTransactionNotFound)

		redirect := newReturnService(repo, gateway, newAudit()).Resolve(ctx, returnQuery())

		assert.Equal(t, checkoutEntryURL, redirect.URL)
	})

	t.Run("missing order id never calls the processor", func(t *testing.T) {
		gateway := &mocks.Gateway{}
		query := returnQuery()
		query.MerchantOrderID = ""

		redirect := newReturnService(&mocks.PaymentTransactionRepository{}, gateway, newAudit()).Resolve(ctx, query)

		assert.Equal(t, checkoutEntryURL, redirect.URL)
		gateway.AssertNotCalled(t, "CheckStatus", mock.Anything, mock.Anything)
	})

	t.Run("never writes a transaction", func(t *testing.T) {
		repo := &mocks.PaymentTransactionRepository{}
		gateway := &mocks.Gateway{}
		gateway.On("CheckStatus", mock.Anything, testOrderID).
			Return(duitku.StatusResponse{Reference: "REF1", Status: duitku.StatusSuccess}, nil)

		newReturnService(repo, gateway, newAudit()).Resolve(ctx, returnQuery())

		assert.Empty(t, repo.Calls)
	})
}
