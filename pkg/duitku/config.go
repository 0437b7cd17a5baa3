package duitku

import (
	"errors"
	"time"
)

const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

const (
	sandboxAPIBase      = "https://api-sandbox.duitku.com/api/merchant"
	sandboxStatusURL    = "https://sandbox.duitku.com/webapi/api/merchant/transactionStatus"
	sandboxCheckoutBase = "https://app-sandbox.duitku.com"

	productionAPIBase      = "https://api-prod.duitku.com/api/merchant"
	productionStatusURL    = "https://passport.duitku.com/webapi/api/merchant/transactionStatus"
	productionCheckoutBase = "https://app-prod.duitku.com"
)

// DefaultTimeout bounds a gateway call when no positive timeout is configured.
const DefaultTimeout = 10 * time.Second

var (
	ErrIncompleteConfig = errors.New("duitku: merchant_code, api_key and expiry_minutes are required")
	ErrInvalidTimeout   = errors.New("duitku: timeout must be positive")
)

type Config struct {
	Enable        bool          `mapstructure:"enable"`
	Environment   string        `mapstructure:"environment"`
	MerchantCode  string        `mapstructure:"merchant_code"`
	APIKey        string        `mapstructure:"api_key"`
	ExpiryMinutes int           `mapstructure:"expiry_minutes"`
	Timeout       time.Duration `mapstructure:"timeout"`

	// Optional overrides, mostly for tests and staging proxies.
	APIBaseURL      string `mapstructure:"api_base_url"`
	StatusURL       string `mapstructure:"status_url"`
	CheckoutBaseURL string `mapstructure:"checkout_base_url"`
}

func (c Config) Validate() error {
	if !c.Enable {
		return nil
	}

	if c.MerchantCode == "" || c.APIKey == "" || c.ExpiryMinutes <= 0 {
		return ErrIncompleteConfig
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// RequestTimeout is the configured timeout, or DefaultTimeout when unset.
func (c Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}

	return c.Timeout
}

func (c Config) production() bool {
	return c.Environment == EnvironmentProduction
}

func (c Config) InvoiceEndpoint() string {
	base := c.APIBaseURL
	if base == "" {
		base = sandboxAPIBase
		if c.production() {
			base = productionAPIBase
		}
	}

	return base + CreateInvoicePath
}

func (c Config) StatusEndpoint() string {
	if c.StatusURL != "" {
		return c.StatusURL
	}

	if c.production() {
		return productionStatusURL
	}

	return sandboxStatusURL
}

func (c Config) CheckoutBase() string {
	if c.CheckoutBaseURL != "" {
		return c.CheckoutBaseURL
	}

	if c.production() {
		return productionCheckoutBase
	}

	return sandboxCheckoutBase
}

// ExpiryMillis is the invoice lifetime in epoch milliseconds.
func (c Config) ExpiryMillis() int64 {
	return int64(c.ExpiryMinutes) * 60000
}
