package constants

import "net/http"

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeFormat             = "FORMAT_ERROR"
	ErrCodeSignature          = "SIGNATURE_ERROR"
	ErrCodeAuth               = "AUTH_ERROR"
	ErrCodeGateway            = "GATEWAY_ERROR"
	ErrCodeUnverified         = "UNVERIFIED_ERROR"
	ErrCodeConsistency        = "CONSISTENCY_ERROR"
	ErrCodeOperationFailed    = "OPERATION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
)

const (
	ErrMsgRejected           = "request rejected"
	ErrMsgUnauthorized       = "unauthorized"
	ErrMsgTryAgain           = "request could not be processed, try again later"
	ErrMsgInternalError      = "Internal server error"
	ErrMsgInvalidRequestBody = "failed to parse request body"
)

// Messages are deliberately coarse; the precise error kind only reaches logs
// and the audit table.
var errorMessages = map[string]string{
	ErrCodeValidation:         ErrMsgRejected,
	ErrCodeFormat:             ErrMsgRejected,
	ErrCodeSignature:          ErrMsgUnauthorized,
	ErrCodeAuth:               ErrMsgUnauthorized,
	ErrCodeGateway:            ErrMsgTryAgain,
	ErrCodeUnverified:         ErrMsgTryAgain,
	ErrCodeConsistency:        ErrMsgInternalError,
	ErrCodeOperationFailed:    ErrMsgInternalError,
	ErrCodeInternalError:      ErrMsgInternalError,
	ErrCodeInvalidRequestBody: ErrMsgInvalidRequestBody,
	ErrCodeValidationFailed:   ErrMsgInvalidRequestBody,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeFormat, ErrCodeInvalidRequestBody:
		return http.StatusBadRequest
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeAuth:
		return http.StatusUnauthorized
	case ErrCodeSignature:
		return http.StatusForbidden
	case ErrCodeUnverified:
		return http.StatusConflict
	case ErrCodeGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
