// Package gateway holds HTTP clients for the external services this
// service depends on: the payment processor, object storage, the document
// renderer and the notification service.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

type ProcessorConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ProcessorClient talks to the card processor's intent API. Every error is
// wrapped as ErrUpstream so callers map it to a gateway failure rather
// than a client fault.
type ProcessorClient struct {
	client *resty.Client
}

func NewProcessorClient(cfg ProcessorConfig) *ProcessorClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &ProcessorClient{client: client}
}

type chargeIntentRequest struct {
	AmountCents int64                `json:"amount_cents"`
	Currency    string               `json:"currency"`
	Metadata    ports.ChargeMetadata `json:"metadata"`
}

type chargeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

func (c *ProcessorClient) CreateChargeIntent(ctx context.Context, amountCents int64, currency string, metadata ports.ChargeMetadata) (ports.ChargeIntent, error) {
	var out chargeIntentResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chargeIntentRequest{AmountCents: amountCents, Currency: currency, Metadata: metadata}).
		SetResult(&out).
		Post("/v1/charge-intents")
	if err != nil {
		return ports.ChargeIntent{}, fmt.Errorf("%w: processor request: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return ports.ChargeIntent{}, fmt.Errorf("%w: processor returned %d", domain.ErrUpstream, resp.StatusCode())
	}
	if out.ID == "" {
		return ports.ChargeIntent{}, fmt.Errorf("%w: processor returned empty intent id", domain.ErrUpstream)
	}
	return ports.ChargeIntent{ID: out.ID, ClientSecret: out.ClientSecret}, nil
}
