package v1

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Behyna/paygw/internal/api/contract"
	"github.com/Behyna/paygw/internal/api/validator"
	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/correlation"
	"github.com/Behyna/paygw/internal/metrics"
	"github.com/Behyna/paygw/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	logger     *zap.Logger
	checkout   service.CheckoutService
	callback   service.CallbackService
	returns    service.ReturnService
	pending    service.PendingService
	urls       service.URLs
	XValidator validator.IXValidator
	metrics    *metrics.Metrics
}

func NewHandler(logger *zap.Logger, checkout service.CheckoutService, callback service.CallbackService,
	returns service.ReturnService, pending service.PendingService, urls service.URLs, XValidator validator.IXValidator,
	metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:     logger,
		checkout:   checkout,
		callback:   callback,
		returns:    returns,
		pending:    pending,
		urls:       urls,
		XValidator: XValidator,
		metrics:    metrics,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// Checkout is called by the platform backend and answers with the URL the
// buyer must be sent to.
func (h *Handler) Checkout(c *fiber.Ctx) error {
	start := time.Now()

	var request CheckoutRequest
	validationStart := time.Now()

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	h.metrics.RecordValidationDuration("checkout", time.Since(validationStart))

	if responseError.Code != "" {
		h.logger.Warn("Error Validator", zap.Any("request", request))
		responseError.Code = constants.ErrCodeValidationFailed
		responseError.TrackID = service.TrackID(c.UserContext())
		return c.JSON(responseError)
	}

	cmd := service.CheckoutCommand{
		Fingerprint: correlation.Fingerprint{
			Component:   request.Component,
			PaymentArea: request.PaymentArea,
			ItemID:      request.ItemID,
			UserID:      request.UserID,
		},
		Description: request.Description,
		Buyer: service.Buyer{
			Email:     request.Buyer.Email,
			FirstName: request.Buyer.FirstName,
			LastName:  request.Buyer.LastName,
			Username:  request.Buyer.Username,
			Phone:     request.Buyer.Phone,
			Address:   request.Buyer.Address,
			City:      request.Buyer.City,
			Country:   request.Buyer.Country,
		},
	}

	redirect, err := h.checkout.Checkout(c.UserContext(), cmd)
	response := CheckoutResponse{
		RedirectURL:     redirect.URL,
		Outcome:         redirect.Outcome,
		MerchantOrderID: redirect.MerchantOrderID,
		Reference:       redirect.Reference,
	}

	if err != nil {
		return c.Status(constants.GetHTTPStatus(service.ErrorCode(err))).JSON(contract.Response{
			Code:    constants.CheckoutOutcomeFailed,
			Message: constants.GenericFailureMessage,
			TrackID: service.TrackID(c.UserContext()),
			Result:  response,
		})
	}

	h.logger.Info("Checkout served",
		zap.String("fingerprint", cmd.Fingerprint.Key()),
		zap.String("outcome", redirect.Outcome),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		TrackID:    service.TrackID(c.UserContext()),
		Result:     response,
	})
}

// CheckoutPage is the browser entry point. Every outcome is a redirect.
func (h *Handler) CheckoutPage(c *fiber.Ctx) error {
	var (
		query CheckoutQuery
		buyer BuyerHeaders
	)

	if err := c.QueryParser(&query); err != nil {
		h.logger.Warn("Failed to parse checkout query", zap.Error(err))
		return c.Redirect(h.urls.Failure(), fiber.StatusFound)
	}
	if err := c.ReqHeaderParser(&buyer); err != nil {
		h.logger.Warn("Failed to parse buyer headers", zap.Error(err))
		return c.Redirect(h.urls.Failure(), fiber.StatusFound)
	}

	if res := h.XValidator.Check(&query, constants.MessageErrorFormat, c); res.Code != "" {
		h.logger.Warn("Error Validator", zap.Any("request", query))
		return c.Redirect(h.urls.Failure(), fiber.StatusFound)
	}
	if res := h.XValidator.Check(&buyer, constants.MessageErrorFormat, c); res.Code != "" {
		h.logger.Warn("Error Validator", zap.Int64("userID", buyer.UserID))
		return c.Redirect(h.urls.Failure(), fiber.StatusFound)
	}

	redirect, err := h.checkout.Checkout(c.UserContext(), service.CheckoutCommand{
		Fingerprint: correlation.Fingerprint{
			Component:   query.Component,
			PaymentArea: query.PaymentArea,
			ItemID:      query.ItemID,
			UserID:      buyer.UserID,
		},
		Description: query.Description,
		Buyer: service.Buyer{
			Email:     buyer.Email,
			FirstName: buyer.FirstName,
			LastName:  buyer.LastName,
			Username:  buyer.Username,
			Phone:     buyer.Phone,
			Address:   buyer.Address,
			City:      buyer.City,
			Country:   buyer.Country,
		},
	})
	if err != nil {
		h.logger.Warn("Checkout page failed", zap.String("code", service.ErrorCode(err)))
	}

	return c.Redirect(redirect.URL, fiber.StatusFound)
}

// Return serves both the processor's return URL and the reference link sent
// by email.
func (h *Handler) Return(c *fiber.Ctx) error {
	var request ReturnRequest
	if err := c.QueryParser(&request); err != nil {
		h.logger.Warn("Failed to parse return query", zap.Error(err))
	}

	redirect := h.returns.Resolve(c.UserContext(), service.ReturnQuery{
		MerchantOrderID: request.MerchantOrderID,
		Reference:       request.Reference,
		ResultCode:      request.ResultCode,
		Component:       request.Component,
		PaymentArea:     request.PaymentArea,
		ItemID:          request.ItemID,
		Description:     request.Description,
	})

	return c.Redirect(redirect.URL, fiber.StatusFound)
}

func (h *Handler) Callback(c *fiber.Ctx) error {
	req := service.CallbackRequest{
		Method:   c.Method(),
		RawQuery: string(c.Request().URI().QueryString()),
		Form:     callbackForm(c),
	}

	result, err := h.callback.Verify(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		TrackID:    service.TrackID(c.UserContext()),
		Result:     result,
	})
}

func (h *Handler) PendingPayments(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil || userID <= 0 {
		h.metrics.RecordValidationError("user_id", "min")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(contract.Response{
			Code:    constants.ErrCodeValidationFailed,
			Message: fmt.Sprintf(constants.MessageErrorFormat, "user_id"),
			TrackID: service.TrackID(c.UserContext()),
		})
	}

	payments, err := h.pending.ListPending(c.UserContext(), int64(userID))
	if err != nil {
		h.logger.Error("Error listing pending payments", zap.Int("userID", userID), zap.Error(err))
		return err
	}

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		TrackID:    service.TrackID(c.UserContext()),
		Result:     PendingPaymentsResponse{UserID: int64(userID), Payments: payments},
	})
}

func callbackForm(c *fiber.Ctx) url.Values {
	form := url.Values{}

	if multipart, err := c.MultipartForm(); err == nil {
		for key, values := range multipart.Value {
			form[key] = append(form[key], values...)
		}
		return form
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		form.Add(string(key), string(value))
	})

	return form
}
