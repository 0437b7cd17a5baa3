package platform

type DeliverOrderRequest struct {
	Component   string `json:"component"`
	PaymentArea string `json:"payment_area"`
	ItemID      int64  `json:"item_id"`
	PaymentID   int64  `json:"payment_id"`
	UserID      int64  `json:"user_id"`
}
