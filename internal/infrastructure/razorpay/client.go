// Package razorpay creates payment orders through the Razorpay Orders API.
package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
)

const DefaultBaseURL = "https://api.razorpay.com"

type Client struct {
	http *resty.Client
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewClient authenticates with the key pair over basic auth. timeout bounds
// each request; callers may impose a tighter deadline through ctx.
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	h := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetBasicAuth(keyID, keySecret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{http: h}
}

func (c *Client) CreatePaymentIntent(ctx context.Context, amount entity.Money, receipt string) (*gateway.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, errors.New("razorpay: amount must be positive")
	}
	var out orderResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(orderRequest{Amount: amount.Amount, Currency: amount.Currency, Receipt: receipt}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Description
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return nil, fmt.Errorf("razorpay: create order: status %d: %s", resp.StatusCode(), msg)
	}
	if out.ID == "" {
		return nil, errors.New("razorpay: create order: empty order id")
	}
	cur := out.Currency
	if cur == "" {
		cur = amount.Currency
	}
	amt := out.Amount
	if amt == 0 {
		amt = amount.Amount
	}
	return &gateway.PaymentIntent{OrderID: out.ID, Amount: entity.NewMoney(amt, cur)}, nil
}

var _ gateway.PaymentGateway = (*Client)(nil)
