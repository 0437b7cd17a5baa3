package duitku

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Behyna/paygw/pkg/httpclient"
)

const (
	CreateInvoicePath = "/createInvoice"
	RedirectPath      = "/redirect_checkout"
)

type Gateway interface {
	CreateInvoice(ctx context.Context, request CreateInvoiceRequest, timestamp int64) (CreateInvoiceResponse, error)
	CheckStatus(ctx context.Context, merchantOrderID string) (StatusResponse, error)
	HostedPageURL(reference string) string
}

type gateway struct {
	client httpclient.HTTPClient
	config Config
}

func NewGateway(cfg Config, client httpclient.HTTPClient) Gateway {
	return &gateway{config: cfg, client: client}
}

func (g *gateway) CreateInvoice(ctx context.Context, request CreateInvoiceRequest, timestamp int64) (CreateInvoiceResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return CreateInvoiceResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	signature := InvoiceSignature(g.config.MerchantCode, timestamp, g.config.APIKey)
	headers := map[string]string{
		"Content-Type":          "application/json",
		"Content-Length":        strconv.Itoa(buf.Len()),
		"x-duitku-signature":    signature,
		"x-duitku-timestamp":    strconv.FormatInt(timestamp, 10),
		"x-duitku-merchantcode": g.config.MerchantCode,
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.Post(ctx, g.config.InvoiceEndpoint(), &buf, headers)
	if err != nil {
		return CreateInvoiceResponse{}, transportError(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CreateInvoiceResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response CreateInvoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return CreateInvoiceResponse{}, fmt.Errorf("%w: decoding error: %v", ErrMalformedResponse, err)
	}

	if response.Reference == "" || response.PaymentURL == "" {
		return CreateInvoiceResponse{}, fmt.Errorf("%w: missing reference or paymentUrl", ErrMalformedResponse)
	}

	response.Signature = signature

	return response, nil
}

func (g *gateway) CheckStatus(ctx context.Context, merchantOrderID string) (StatusResponse, error) {
	request := statusRequest{
		MerchantCode:    g.config.MerchantCode,
		MerchantOrderID: merchantOrderID,
		Signature:       StatusSignature(g.config.MerchantCode, merchantOrderID, g.config.APIKey),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return StatusResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(buf.Len()),
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.Post(ctx, g.config.StatusEndpoint(), &buf, headers)
	if err != nil {
		return StatusResponse{}, transportError(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return StatusResponse{}, ErrOrderNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return StatusResponse{}, MapStatusToError(resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return StatusResponse{}, transportError(err)
	}

	var response StatusResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return StatusResponse{}, fmt.Errorf("%w: decoding error: %v", ErrMalformedResponse, err)
	}

	status, err := ParseStatus(response.StatusCode)
	if err != nil {
		return StatusResponse{}, err
	}

	response.Status = status
	response.Raw = raw

	return response, nil
}

func (g *gateway) HostedPageURL(reference string) string {
	return g.config.CheckoutBase() + RedirectPath + "?reference=" + url.QueryEscape(reference)
}

func (g *gateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.config.RequestTimeout())
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
