package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

const commissionKey = "platform:commission_percent"

// RedisCommissionStore holds the platform commission percent shared across
// service instances. A missing key maps to ErrNotFound so the service can
// fall back to its configured default.
type RedisCommissionStore struct {
	client *redis.Client
}

func NewRedisCommissionStore(client *redis.Client) *RedisCommissionStore {
	return &RedisCommissionStore{client: client}
}

func (s *RedisCommissionStore) CommissionPercent(ctx context.Context) (int64, error) {
	raw, err := s.client.Get(ctx, commissionKey).Result()
	if err == redis.Nil {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read commission percent: %w", err)
	}
	percent, convErr := strconv.ParseInt(raw, 10, 64)
	if convErr != nil {
		return 0, fmt.Errorf("parse commission percent %q: %w", raw, convErr)
	}
	return percent, nil
}

func (s *RedisCommissionStore) SetCommissionPercent(ctx context.Context, percent int64) error {
	if percent < 0 || percent > 100 {
		return domain.ErrInvalidInput
	}
	return s.client.Set(ctx, commissionKey, strconv.FormatInt(percent, 10), 0).Err()
}
