package v1

import "github.com/Behyna/paygw/internal/service"

type CheckoutResponse struct {
	RedirectURL     string `json:"redirect_url"`
	Outcome         string `json:"outcome"`
	MerchantOrderID string `json:"merchant_order_id,omitempty"`
	Reference       string `json:"reference,omitempty"`
}

type PendingPaymentsResponse struct {
	UserID   int64                    `json:"user_id"`
	Payments []service.PendingPayment `json:"payments"`
}
