// Package payment wraps the external payment processor behind a small
// gateway interface so checkout can be tested without the network.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arinovich/bookwidget/internal/domain"
)

type ChargeRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	CardNumber  string `json:"card_number"`
	Expiry      string `json:"expiry"`
	CVV         string `json:"cvv"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

type ChargeResult struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("charge request: %w", err)
	}
	defer resp.Body.Close()

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusPaymentRequired || result.Status == "declined":
		return nil, domain.ErrCardDeclined
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("payment gateway returned %d", resp.StatusCode)
	}
	return &result, nil
}

var _ Gateway = (*Client)(nil)
