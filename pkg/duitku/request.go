package duitku

type CreateInvoiceRequest struct {
	PaymentAmount    int64          `json:"paymentAmount"`
	MerchantOrderID  string         `json:"merchantOrderId"`
	ProductDetails   string         `json:"productDetails"`
	CustomerVaName   string         `json:"customerVaName"`
	MerchantUserInfo string         `json:"merchantUserInfo"`
	Email            string         `json:"email"`
	PhoneNumber      string         `json:"phoneNumber,omitempty"`
	ItemDetails      []ItemDetail   `json:"itemDetails"`
	CustomerDetail   CustomerDetail `json:"customerDetail"`
	CallbackURL      string         `json:"callbackUrl"`
	ReturnURL        string         `json:"returnUrl"`
	ExpiryPeriod     int            `json:"expiryPeriod"`
	AdditionalParam  string         `json:"additionalParam,omitempty"`
}

type ItemDetail struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type CustomerDetail struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	BillingAddress  *Address `json:"billingAddress,omitempty"`
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
}

type Address struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	Phone       string `json:"phone"`
	CountryCode string `json:"countryCode"`
}

type statusRequest struct {
	MerchantCode    string `json:"merchantCode"`
	MerchantOrderID string `json:"merchantOrderId"`
	Signature       string `json:"signature"`
}
