package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

type DocumentConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DocumentClient asks the renderer service for a PDF of the agreement. The
// renderer pulls signature images by URL, so the request body is just the
// contract snapshot plus the optional checklist.
type DocumentClient struct {
	client *resty.Client
}

func NewDocumentClient(cfg DocumentConfig) *DocumentClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &DocumentClient{client: client}
}

type renderRequest struct {
	Contract  domain.Contract   `json:"contract"`
	Checklist *domain.Checklist `json:"checklist,omitempty"`
}

type renderResponse struct {
	DocumentURL string `json:"document_url"`
}

func (c *DocumentClient) Render(ctx context.Context, input ports.DocumentRenderInput) (string, error) {
	var out renderResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(renderRequest{Contract: input.Contract, Checklist: input.Checklist}).
		SetResult(&out).
		Post("/v1/agreements/render")
	if err != nil {
		return "", fmt.Errorf("%w: renderer request: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: renderer returned %d", domain.ErrUpstream, resp.StatusCode())
	}
	if out.DocumentURL == "" {
		return "", fmt.Errorf("%w: renderer returned empty document url", domain.ErrUpstream)
	}
	return out.DocumentURL, nil
}
