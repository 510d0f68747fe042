package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type StorageConfig struct {
	BaseURL string
	Bucket  string
	APIKey  string
	Timeout time.Duration
}

// StorageClient uploads signature images and rendered documents to the
// platform object store over its simple HTTP put API.
type StorageClient struct {
	client *resty.Client
	bucket string
}

func NewStorageClient(cfg StorageConfig) *StorageClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey)
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "contracts"
	}
	return &StorageClient{client: client, bucket: bucket}
}

type storagePutResponse struct {
	URL string `json:"url"`
}

func (c *StorageClient) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	var out storagePutResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		SetResult(&out).
		Put("/v1/buckets/" + c.bucket + "/objects/" + key)
	if err != nil {
		return "", fmt.Errorf("%w: storage request: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: storage returned %d", domain.ErrUpstream, resp.StatusCode())
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: storage returned empty url", domain.ErrUpstream)
	}
	return out.URL, nil
}
