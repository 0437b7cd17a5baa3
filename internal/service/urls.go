package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Behyna/paygw/internal/constants"
	"github.com/Behyna/paygw/internal/correlation"
)

const (
	CallbackPath  = "/api/v1/callback"
	ReturnPath    = "/api/v1/return"
	ReferencePath = "/api/v1/reference"
	CheckoutPath  = "/api/v1/checkout"
)

// URLs builds every link this service hands to the processor or the buyer.
type URLs struct {
	publicBase string
	failureURL string
}

func NewURLs(publicBase, failureURL string) URLs {
	return URLs{publicBase: strings.TrimRight(publicBase, "/"), failureURL: failureURL}
}

func (u URLs) Callback() string {
	return u.publicBase + CallbackPath
}

func (u URLs) Return(fp correlation.Fingerprint, description string) string {
	return u.publicBase + ReturnPath + "?" + itemQuery(fp, description).Encode()
}

func (u URLs) Reference(merchantOrderID string, fp correlation.Fingerprint, description string) string {
	query := itemQuery(fp, description)
	query.Set("merchantOrderId", merchantOrderID)
	return u.publicBase + ReferencePath + "?" + query.Encode()
}

// CheckoutEntry sends the buyer back to start a fresh checkout for the item.
func (u URLs) CheckoutEntry(fp correlation.Fingerprint, description string) string {
	return u.publicBase + CheckoutPath + "?" + itemQuery(fp, description).Encode()
}

// Failure carries only the generic message, whatever went wrong.
func (u URLs) Failure() string {
	base := u.failureURL
	if base == "" {
		base = u.publicBase + "/"
	}

	target, err := url.Parse(base)
	if err != nil {
		return u.publicBase + "/"
	}

	query := target.Query()
	query.Set("message", constants.GenericFailureMessage)
	target.RawQuery = query.Encode()

	return target.String()
}

func itemQuery(fp correlation.Fingerprint, description string) url.Values {
	query := url.Values{}
	query.Set("component", fp.Component)
	query.Set("paymentarea", fp.PaymentArea)
	query.Set("itemid", strconv.FormatInt(fp.ItemID, 10))
	query.Set("description", description)
	return query
}
