package duitku

import (
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusSuccess  Status = "00"
	StatusPending  Status = "01"
	StatusCanceled Status = "02"
)

func ParseStatus(code string) (Status, error) {
	switch Status(code) {
	case StatusSuccess, StatusPending, StatusCanceled:
		return Status(code), nil
	default:
		return "", fmt.Errorf("%w: unknown status code %q", ErrMalformedResponse, code)
	}
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusPending:
		return "PENDING"
	case StatusCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

type CreateInvoiceResponse struct {
	MerchantCode  string `json:"merchantCode"`
	Reference     string `json:"reference"`
	PaymentURL    string `json:"paymentUrl"`
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`

	// Signature is the header signature sent with the request.
	Signature string `json:"-"`
}

type StatusResponse struct {
	MerchantOrderID string      `json:"merchantOrderId"`
	Reference       string      `json:"reference"`
	Amount          json.Number `json:"amount"`
	StatusCode      string      `json:"statusCode"`
	StatusMessage   string      `json:"statusMessage"`

	Status Status `json:"-"`
	Raw    []byte `json:"-"`
}
