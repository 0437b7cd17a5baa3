package duitku

import (
	"errors"
	"net/http"
)

const (
	ErrCodeTimeout           = "GATEWAY_TIMEOUT"
	ErrCodeNetwork           = "GATEWAY_NETWORK"
	ErrCodeServerError       = "GATEWAY_SERVER_ERROR"
	ErrCodeUnauthorized      = "GATEWAY_UNAUTHORIZED"
	ErrCodeBadRequest        = "GATEWAY_BAD_REQUEST"
	ErrCodeMalformedResponse = "GATEWAY_MALFORMED_RESPONSE"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
)

var (
	ErrTimeout           = errors.New(ErrCodeTimeout)
	ErrNetwork           = errors.New(ErrCodeNetwork)
	ErrServerError       = errors.New(ErrCodeServerError)
	ErrUnauthorized      = errors.New(ErrCodeUnauthorized)
	ErrBadRequest        = errors.New(ErrCodeBadRequest)
	ErrMalformedResponse = errors.New(ErrCodeMalformedResponse)

	// ErrOrderNotFound is the processor's definitive answer that it does not
	// know the order, as opposed to a failure to ask.
	ErrOrderNotFound = errors.New(ErrCodeOrderNotFound)
)

var statusErrorMap = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrUnauthorized,
	http.StatusUnprocessableEntity: ErrBadRequest,
}

var gatewayErrors = []error{
	ErrTimeout,
	ErrNetwork,
	ErrServerError,
	ErrUnauthorized,
	ErrBadRequest,
	ErrMalformedResponse,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// IsGatewayError reports whether err means the processor could not be reached
// or did not answer intelligibly.
func IsGatewayError(err error) bool {
	for _, target := range gatewayErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
