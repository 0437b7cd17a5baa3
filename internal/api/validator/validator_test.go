package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Behyna/paygw/internal/api/contract"
	"github.com/Behyna/paygw/internal/api/validator"
	"github.com/Behyna/paygw/internal/metrics"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRequest struct {
	Component string `json:"component" validate:"required,itemkey"`
	ItemID    int64  `json:"item_id" validate:"required,min=1"`
}

func newValidator() validator.IXValidator {
	return validator.NewXValidator(playground.New(), metrics.NewMetricsWith(prometheus.NewRegistry()))
}

func TestXValidator_Validate(t *testing.T) {
	v := newValidator()

	testCases := []struct {
		name   string
		req    itemRequest
		failed []string
	}{
		{name: "valid", req: itemRequest{Component: "enrol_fee", ItemID: 42}},
		{name: "dash in component", req: itemRequest{Component: "enrol-fee", ItemID: 42}, failed: []string{"Component"}},
		{name: "missing everything", req: itemRequest{}, failed: []string{"Component", "ItemID"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.Validate(tc.req)

			var fields []string
			for _, err := range errs {
				fields = append(fields, err.FailedField)
			}
			assert.Equal(t, tc.failed, fields)
		})
	}
}

func TestXValidator_Validator(t *testing.T) {
	v := newValidator()

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var req itemRequest
		if res := v.Validator(&req, "The '%s' format is invalid", c); res.Code != "" {
			return c.JSON(res)
		}
		return c.JSON(contract.Response{Code: "success", Result: req})
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"component":"a-b","item_id":1}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("accepts valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"component":"enrol_fee","item_id":42}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
