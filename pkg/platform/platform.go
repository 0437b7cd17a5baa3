package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Behyna/paygw/pkg/httpclient"
)

const (
	PayablesEndpoint = "/payables"
	DeliverEndpoint  = "/orders/deliver"
)

// Client talks to the host platform that owns pricing and enrolment.
type Client interface {
	GetPayable(ctx context.Context, component, paymentArea string, itemID int64) (Payable, error)
	DeliverOrder(ctx context.Context, request DeliverOrderRequest) (Response, error)
}

type client struct {
	http   httpclient.HTTPClient
	config Config
}

func NewClient(cfg Config, http httpclient.HTTPClient) Client {
	return &client{config: cfg, http: http}
}

func (c *client) GetPayable(ctx context.Context, component, paymentArea string, itemID int64) (Payable, error) {
	query := url.Values{}
	query.Set("component", component)
	query.Set("payment_area", paymentArea)
	query.Set("item_id", strconv.FormatInt(itemID, 10))

	resp, err := c.http.Get(ctx, c.config.BaseURL+PayablesEndpoint+"?"+query.Encode(), c.headers())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Payable{}, ErrTimeout
		}

		return Payable{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Payable{}, MapStatusToError(resp.StatusCode)
	}

	var response payableResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Payable{}, fmt.Errorf("decoding error: %w", err)
	}

	return response.Result, nil
}

func (c *client) DeliverOrder(ctx context.Context, request DeliverOrderRequest) (Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return Response{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := c.headers()
	headers["Content-Type"] = "application/json"

	resp, err := c.http.Post(ctx, c.config.BaseURL+DeliverEndpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Response{}, ErrTimeout
		}

		return Response{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, MapStatusToError(resp.StatusCode)
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Response{}, fmt.Errorf("decoding error: %w", err)
	}

	return response, nil
}

func (c *client) headers() map[string]string {
	headers := map[string]string{"Accept": "application/json"}
	if c.config.APIKey != "" {
		headers["X-API-Key"] = c.config.APIKey
	}
	return headers
}
