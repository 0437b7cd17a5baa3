package platform

import "github.com/shopspring/decimal"

type Response struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	TrackID string `json:"x_track_id,omitempty"`
}

type Payable struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	AccountID int64           `json:"account_id"`
}

type payableResponse struct {
	Response
	Result Payable `json:"result"`
}
