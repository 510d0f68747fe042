package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type NotifierConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NotifierClient delivers in-app notifications through the notification
// service. Delivery is best effort; the caller logs and moves on.
type NotifierClient struct {
	client *resty.Client
}

func NewNotifierClient(cfg NotifierConfig) *NotifierClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &NotifierClient{client: client}
}

func (c *NotifierClient) Send(ctx context.Context, notification domain.Notification) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(notification).
		Post("/v1/notifications")
	if err != nil {
		return fmt.Errorf("%w: notifier request: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: notifier returned %d", domain.ErrUpstream, resp.StatusCode())
	}
	return nil
}
