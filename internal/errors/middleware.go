package errors

import (
	"errors"

	"github.com/Behyna/paygw/internal/api/contract"
	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/service"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler answers with the status of the error kind and a generic
// message. The kind itself stays in the logs.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		trackID := service.TrackID(c.UserContext())

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(contract.ResponseError{
				Code:    fiberErr.Code,
				Message: fiberErr.Message,
				TrackID: trackID,
			})
		}

		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr, trackID)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(contract.ResponseError{
			Code:    fiber.StatusInternalServerError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
			TrackID: trackID,
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error, trackID string) error {
	status := constants.GetHTTPStatus(err.Code)

	return c.Status(status).JSON(contract.ResponseError{
		Code:    status,
		Message: constants.GetErrorMessage(err.Code),
		TrackID: trackID,
	})
}
