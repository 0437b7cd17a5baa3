package service

import (
	"errors"

	"github.com/Behyna/paygw/internal/constants"
)

var (
	ErrUnsupportedCurrency = errors.New("UNSUPPORTED_CURRENCY")
	ErrInvalidAmount       = errors.New("INVALID_AMOUNT")
	ErrMethodNotAllowed    = errors.New("METHOD_NOT_ALLOWED")
	ErrUnexpectedQuery     = errors.New("UNEXPECTED_QUERY")
	ErrEmptyBody           = errors.New("EMPTY_BODY")
	ErrTokenMismatch       = errors.New("TOKEN_MISMATCH")
	ErrResultNotSuccess    = errors.New("RESULT_NOT_SUCCESS")
	ErrMerchantMismatch    = errors.New("MERCHANT_MISMATCH")
	ErrSignatureMismatch   = errors.New("SIGNATURE_MISMATCH")
	ErrPaymentNotVerified  = errors.New("PAYMENT_NOT_VERIFIED")
	ErrUnknownReference    = errors.New("UNKNOWN_REFERENCE")
	ErrTransactionMismatch = errors.New("TRANSACTION_MISMATCH")
	ErrTransactionCanceled = errors.New("TRANSACTION_CANCELED")
	ErrStaleTransaction    = errors.New("STALE_TRANSACTION")
	ErrPayableUnavailable  = errors.New("PAYABLE_UNAVAILABLE")
)

func NewServiceError(code string, cause error) error {
	return Error{
		Code:  code,
		Cause: cause,
	}
}

type Error struct {
	Code  string
	Cause error
}

func (e Error) Error() string {
	if e.Cause == nil {
		return e.Code
	}
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the code carried by err, or INTERNAL_ERROR when err is
// not a service error.
func ErrorCode(err error) string {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return constants.ErrCodeInternalError
}
