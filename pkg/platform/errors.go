package platform

import (
	"errors"
	"net/http"
)

const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodePayableNotFound  = "PAYABLE_NOT_FOUND"
	ErrCodeAlreadyDelivered = "ALREADY_DELIVERED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeServerError      = "SERVER_ERROR"
)

var (
	ErrValidationFailed = errors.New(ErrCodeValidationFailed)
	ErrPayableNotFound  = errors.New(ErrCodePayableNotFound)
	ErrAlreadyDelivered = errors.New(ErrCodeAlreadyDelivered)
	ErrTimeout          = errors.New(ErrCodeTimeout)
	ErrServerError      = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	http.StatusNotFound:            ErrPayableNotFound,
	http.StatusUnprocessableEntity: ErrValidationFailed,
	http.StatusConflict:            ErrAlreadyDelivered,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
