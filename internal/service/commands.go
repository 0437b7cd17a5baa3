package service

import (
	"net/url"

	"github.com/Behyna/paygw/internal/correlation"
	"github.com/shopspring/decimal"
)

type Buyer struct {
	Email     string
	FirstName string
	LastName  string
	Username  string
	Phone     string
	Address   string
	City      string
	Country   string
}

type CheckoutCommand struct {
	Fingerprint correlation.Fingerprint
	Description string
	Buyer       Buyer
}

type Redirect struct {
	URL             string `json:"redirect_url"`
	Outcome         string `json:"outcome"`
	MerchantOrderID string `json:"merchant_order_id,omitempty"`
	Reference       string `json:"reference,omitempty"`
}

// CallbackRequest is the raw webhook as received, before any field is trusted.
type CallbackRequest struct {
	Method   string
	RawQuery string
	Form     url.Values
}

type CallbackPayload struct {
	MerchantCode     string `validate:"required"`
	Amount           string `validate:"required"`
	MerchantOrderID  string `validate:"required"`
	ProductDetail    string
	CorrelationToken string `validate:"required"`
	PaymentCode      string
	ResultCode       string `validate:"required"`
	Reference        string `validate:"required"`
	Signature        string `validate:"required"`
}

type CallbackResult struct {
	TransactionID   int64  `json:"transaction_id"`
	MerchantOrderID string `json:"merchant_order_id"`
	Reference       string `json:"reference"`
	Replayed        bool   `json:"replayed"`
}

type ReturnQuery struct {
	MerchantOrderID string
	Reference       string
	ResultCode      string
	Component       string
	PaymentArea     string
	ItemID          int64
	Description     string
}

type SweepResult struct {
	Scanned int `json:"scanned"`
	Expired int `json:"expired"`
	Skipped int `json:"skipped"`
}

type PendingPayment struct {
	TransactionID   int64  `json:"transaction_id"`
	MerchantOrderID string `json:"merchant_order_id"`
	Reference       string `json:"reference"`
	Component       string `json:"component"`
	PaymentArea     string `json:"payment_area"`
	ItemID          int64  `json:"item_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	PaymentURL      string `json:"payment_url"`
	ReferenceURL    string `json:"reference_url"`
	ExpiryAt        int64  `json:"expiry_at"`
}

type DeliverOrderCommand struct {
	MerchantOrderID string `json:"merchant_order_id"`
	Component       string `json:"component"`
	PaymentArea     string `json:"payment_area"`
	ItemID          int64  `json:"item_id"`
	PaymentID       int64  `json:"payment_id"`
	UserID          int64  `json:"user_id"`
}

type Notification struct {
	UserID  int64
	Email   string
	Subject string
	Body    string
}

type Payable struct {
	Amount    decimal.Decimal
	Currency  string
	AccountID int64
}

type AuditEntry struct {
	Event           string
	UserID          int64
	MerchantOrderID string
	Reference       string
	Destination     string
	HTTPCode        int
	ErrorKind       string
	Payload         any
}
