package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

func newTestStore(t *testing.T) (*RedisCommissionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCommissionStore(client), mr
}

func TestCommissionPercentMissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.CommissionPercent(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCommissionPercentRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetCommissionPercent(ctx, 7))
	percent, err := store.CommissionPercent(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), percent)
}

func TestSetCommissionPercentValidatesRange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.True(t, errors.Is(store.SetCommissionPercent(ctx, -1), domain.ErrInvalidInput))
	assert.True(t, errors.Is(store.SetCommissionPercent(ctx, 101), domain.ErrInvalidInput))
	assert.NoError(t, store.SetCommissionPercent(ctx, 0))
	assert.NoError(t, store.SetCommissionPercent(ctx, 100))
}

func TestCommissionPercentCorruptValue(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set(commissionKey, "not-a-number"))
	_, err := store.CommissionPercent(context.Background())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}
