package v1

type BuyerRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Username  string `json:"username" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=50"`
	Address   string `json:"address" validate:"max=255"`
	City      string `json:"city" validate:"max=120"`
	Country   string `json:"country" validate:"max=2"`
}

type CheckoutRequest struct {
	Component   string       `json:"component" validate:"required,itemkey,max=100"`
	PaymentArea string       `json:"payment_area" validate:"required,itemkey,max=100"`
	ItemID      int64        `json:"item_id" validate:"required,min=1"`
	UserID      int64        `json:"user_id" validate:"required,min=1"`
	Description string       `json:"description" validate:"required,max=255"`
	Buyer       BuyerRequest `json:"buyer"`
}

// CheckoutQuery is the browser entry point; the buyer comes from headers set
// by the platform's authenticating proxy.
type CheckoutQuery struct {
	Component   string `query:"component" validate:"required,itemkey,max=100"`
	PaymentArea string `query:"paymentarea" validate:"required,itemkey,max=100"`
	ItemID      int64  `query:"itemid" validate:"required,min=1"`
	Description string `query:"description" validate:"required,max=255"`
}

type BuyerHeaders struct {
	UserID    int64  `reqHeader:"X-User-ID" validate:"required,min=1"`
	Email     string `reqHeader:"X-User-Email" validate:"omitempty,email"`
	FirstName string `reqHeader:"X-User-FirstName" validate:"max=100"`
	LastName  string `reqHeader:"X-User-LastName" validate:"max=100"`
	Username  string `reqHeader:"X-User-Username" validate:"max=100"`
	Phone     string `reqHeader:"X-User-Phone" validate:"max=50"`
	Address   string `reqHeader:"X-User-Address" validate:"max=255"`
	City      string `reqHeader:"X-User-City" validate:"max=120"`
	Country   string `reqHeader:"X-User-Country" validate:"max=2"`
}

type ReturnRequest struct {
	MerchantOrderID string `query:"merchantOrderId"`
	Reference       string `query:"reference"`
	ResultCode      string `query:"resultCode"`
	Component       string `query:"component"`
	PaymentArea     string `query:"paymentarea"`
	ItemID          int64  `query:"itemid"`
	Description     string `query:"description"`
}
