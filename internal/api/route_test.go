package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Behyna/paygw/internal/api"
	"github.com/Behyna/paygw/internal/api/contract"
	"github.com/Behyna/paygw/internal/api/middleware"
	v1 "github.com/Behyna/paygw/internal/api/v1"
	"github.com/Behyna/paygw/internal/api/validator"
	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/correlation"
	apperrors "github.com/Behyna/paygw/internal/errors"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/mocks"
	"github.com/Behyna/paygw/internal/service"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	failureURL = "https://lms.example.com/payment/failed"
	hostedURL  = "https://sandbox.duitku.com/topup/v2/TopUpCreditCardPayment.aspx?reference=REF1"
	orderID    = "enrol_fee-fee-42-7-1690000000000"
)

var fingerprint = correlation.Fingerprint{Component: "enrol_fee", PaymentArea: "fee", ItemID: 42, UserID: 7}

type fixture struct {
	app      *fiber.App
	checkout *mocks.CheckoutService
	callback *mocks.CallbackService
	returns  *mocks.ReturnService
	pending  *mocks.PendingService
}

func newFixture() fixture {
	f := fixture{
		checkout: &mocks.CheckoutService{},
		callback: &mocks.CallbackService{},
		returns:  &mocks.ReturnService{},
		pending:  &mocks.PendingService{},
	}

	m := metrics.NewMetricsWith(prometheus.NewRegistry())
	handler := v1.NewHandler(zap.NewNop(), f.checkout, f.callback, f.returns, f.pending,
		service.NewURLs("https://pay.example.com", failureURL), validator.NewXValidator(playground.New(), m), m)

	f.app = fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler()})
	f.app.Use(middleware.TrackID())
	api.SetupRoutes(f.app, handler)

	return f
}

func decode(t *testing.T, resp *http.Response) contract.Response {
	t.Helper()
	var body contract.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestPing(t *testing.T) {
	f := newFixture()

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckout(t *testing.T) {
	body := `{"component":"enrol_fee","payment_area":"fee","item_id":42,"user_id":7,` +
		`"description":"Course fee","buyer":{"email":"buyer@example.com","first_name":"Ani"}}`

	newRequest := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, service.CheckoutPath, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("returns the redirect", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("Checkout", mock.Anything, service.CheckoutCommand{
			Fingerprint: fingerprint,
			Description: "Course fee",
			Buyer:       service.Buyer{Email: "buyer@example.com", FirstName: "Ani"},
		}).Return(service.Redirect{URL: "https://pay/REF1", Outcome: constants.CheckoutOutcomeCreated,
			MerchantOrderID: orderID, Reference: "REF1"}, nil)

		resp, err := f.app.Test(newRequest(body))
		require.NoError(t, err)

		res := decode(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, res.Successful)
		assert.NotEmpty(t, res.TrackID)
		result := res.Result.(map[string]any)
		assert.Equal(t, "https://pay/REF1", result["redirect_url"])
		assert.Equal(t, constants.CheckoutOutcomeCreated, result["outcome"])
	})

	t.Run("failure still carries the failure redirect", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("Checkout", mock.Anything, mock.Anything).
			Return(service.Redirect{URL: failureURL, Outcome: constants.CheckoutOutcomeFailed},
				service.NewServiceError(constants.ErrCodeGateway, errors.New("timeout")))

		resp, err := f.app.Test(newRequest(body))
		require.NoError(t, err)

		res := decode(t, resp)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, constants.GenericFailureMessage, res.Message)
		assert.Equal(t, failureURL, res.Result.(map[string]any)["redirect_url"])
	})

	t.Run("rejects a dash in the component", func(t *testing.T) {
		f := newFixture()

		resp, err := f.app.Test(newRequest(strings.Replace(body, "enrol_fee", "enrol-fee", 1)))
		require.NoError(t, err)

		res := decode(t, resp)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, constants.ErrCodeValidationFailed, res.Code)
		f.checkout.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
	})
}

func TestCheckoutPage(t *testing.T) {
	target := service.CheckoutPath + "?component=enrol_fee&paymentarea=fee&itemid=42&description=Course+fee"

	t.Run("redirects the buyer", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("Checkout", mock.Anything, service.CheckoutCommand{
			Fingerprint: fingerprint,
			Description: "Course fee",
			Buyer:       service.Buyer{Email: "buyer@example.com", City: "Jakarta"},
		}).Return(service.Redirect{URL: hostedURL, Outcome: constants.CheckoutOutcomeResumed}, nil)

		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("X-User-ID", "7")
		req.Header.Set("X-User-Email", "buyer@example.com")
		req.Header.Set("X-User-City", "Jakarta")

		resp, err := f.app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, hostedURL, resp.Header.Get("Location"))
	})

	t.Run("anonymous buyer goes to the failure page", func(t *testing.T) {
		f := newFixture()

		resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), failureURL))
		f.checkout.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
	})
}

func TestReturn(t *testing.T) {
	for _, path := range []string{service.ReturnPath, service.ReferencePath} {
		t.Run(path, func(t *testing.T) {
			f := newFixture()
			f.returns.On("Resolve", mock.Anything, service.ReturnQuery{
				MerchantOrderID: orderID,
				Reference:       "REF1",
				ResultCode:      "01",
				Component:       "enrol_fee",
				PaymentArea:     "fee",
				ItemID:          42,
				Description:     "Course fee",
			}).Return(service.Redirect{URL: hostedURL, Outcome: constants.ReturnOutcomeHostedPage})

			query := url.Values{
				"merchantOrderId": {orderID},
				"reference":       {"REF1"},
				"resultCode":      {"01"},
				"component":       {"enrol_fee"},
				"paymentarea":     {"fee"},
				"itemid":          {"42"},
				"description":     {"Course fee"},
			}

			resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil))
			require.NoError(t, err)

			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, hostedURL, resp.Header.Get("Location"))
		})
	}
}

func TestCallback(t *testing.T) {
	form := url.Values{
		"merchantCode":    {"D0001"},
		"amount":          {"150000"},
		"merchantOrderId": {orderID},
		"resultCode":      {"00"},
		"reference":       {"REF1"},
		"signature":       {"abc"},
	}

	newRequest := func(method, target string) *http.Request {
		req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	t.Run("applied", func(t *testing.T) {
		f := newFixture()
		f.callback.On("Verify", mock.Anything, mock.MatchedBy(func(req service.CallbackRequest) bool {
			return req.Method == http.MethodPost && req.RawQuery == "" &&
				req.Form.Get("reference") == "REF1" && req.Form.Get("merchantOrderId") == orderID
		})).Return(service.CallbackResult{TransactionID: 11, MerchantOrderID: orderID, Reference: "REF1"}, nil)

		resp, err := f.app.Test(newRequest(http.MethodPost, service.CallbackPath))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, decode(t, resp).Successful)
	})

	t.Run("query string reaches the verifier", func(t *testing.T) {
		f := newFixture()
		f.callback.On("Verify", mock.Anything, mock.MatchedBy(func(req service.CallbackRequest) bool {
			return req.RawQuery == "x=1"
		})).Return(service.CallbackResult{}, service.NewServiceError(constants.ErrCodeAuth, service.ErrUnexpectedQuery))

		resp, err := f.app.Test(newRequest(http.MethodPost, service.CallbackPath+"?x=1"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	testCases := []struct {
		code   string
		status int
	}{
		{constants.ErrCodeSignature, http.StatusForbidden},
		{constants.ErrCodeUnverified, http.StatusConflict},
		{constants.ErrCodeValidation, http.StatusBadRequest},
		{constants.ErrCodeConsistency, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			f := newFixture()
			f.callback.On("Verify", mock.Anything, mock.Anything).
				Return(service.CallbackResult{}, service.NewServiceError(tc.code, errors.New("rejected")))

			resp, err := f.app.Test(newRequest(http.MethodPost, service.CallbackPath))
			require.NoError(t, err)

			var body contract.ResponseError
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotContains(t, body.Message, tc.code)
		})
	}
}

func TestPendingPayments(t *testing.T) {
	t.Run("lists payments", func(t *testing.T) {
		f := newFixture()
		f.pending.On("ListPending", mock.Anything, int64(7)).Return([]service.PendingPayment{
			{TransactionID: 11, MerchantOrderID: orderID, Reference: "REF1", PaymentURL: hostedURL},
		}, nil)

		resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/7/pending-payments", nil))
		require.NoError(t, err)

		res := decode(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		payments := res.Result.(map[string]any)["payments"].([]any)
		require.Len(t, payments, 1)
		assert.Equal(t, hostedURL, payments[0].(map[string]any)["payment_url"])
	})

	t.Run("invalid user id", func(t *testing.T) {
		f := newFixture()

		resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/abc/pending-payments", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		f.pending.On("ListPending", mock.Anything, int64(7)).
			Return([]service.PendingPayment(nil), service.NewServiceError(constants.ErrCodeOperationFailed, errors.New("db")))

		resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/7/pending-payments", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
