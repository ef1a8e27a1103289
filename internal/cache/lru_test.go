package cache

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func order(number string) *model.Order {
	return &model.Order{ID: "id-" + number, BusinessID: "biz-1", OrderNumber: number}
}

func TestLRUCache_SetAndGet(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", order("1"))
	val, found := cache.Get(ctx, "key1")
	assertions.True(found)
	assertions.Equal("1", val.OrderNumber)

	cache.Set(ctx, "key2", order("2"))
	val, found = cache.Get(ctx, "key2")
	assertions.True(found)
	assertions.Equal("2", val.OrderNumber)

	val, found = cache.Get(ctx, "key1")
	assertions.True(found)
	assertions.Equal("1", val.OrderNumber)
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", order("1"))
	cache.Set(ctx, "key2", order("2"))

	// "key1" (самый старый) должен вытесниться
	cache.Set(ctx, "key3", order("3"))

	_, found := cache.Get(ctx, "key1")
	assertions.False(found, "key1 should be evicted")

	_, found = cache.Get(ctx, "key2")
	assertions.True(found)
	_, found = cache.Get(ctx, "key3")
	assertions.True(found)
}

func TestLRUCache_UsageUpdatesOrder(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", order("1"))
	cache.Set(ctx, "key2", order("2"))

	// "key1" становится самым новым
	cache.Get(ctx, "key1")

	cache.Set(ctx, "key3", order("3"))

	_, found := cache.Get(ctx, "key2")
	assertions.False(found, "key2 should be evicted")
	_, found = cache.Get(ctx, "key1")
	assertions.True(found)
	_, found = cache.Get(ctx, "key3")
	assertions.True(found)
}

func TestLRUCache_UpdateValue(t *testing.T) {
	cache := NewLRUCache(2)
	ctx := context.Background()

	cache.Set(ctx, "key1", order("1"))
	updated := order("1")
	updated.Status = "CONFIRMED"
	cache.Set(ctx, "key1", updated)

	val, found := cache.Get(ctx, "key1")
	assert.True(t, found)
	assert.Equal(t, "CONFIRMED", val.Status)
}

func TestLRUCache_ZeroCapacity(t *testing.T) {
	cache := NewLRUCache(0)
	ctx := context.Background()

	cache.Set(ctx, "key1", order("1"))
	_, found := cache.Get(ctx, "key1")
	assert.False(t, found)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "biz-1/ORD-1", Key("biz-1", "ORD-1"))
}

type stubSource struct {
	orders []model.Order
	err    error
	limit  int
}

func (s *stubSource) GetRecentOrders(_ context.Context, limit int) ([]model.Order, error) {
	s.limit = limit
	return s.orders, s.err
}

func TestWarmUp_KeepsNewestOrders(t *testing.T) {
	ctx := context.Background()
	cache := NewLRUCache(2)
	// от новых к старым
	source := &stubSource{orders: []model.Order{*order("3"), *order("2"), *order("1")}}

	require.NoError(t, WarmUp(ctx, source, cache, 2, zap.NewNop()))
	assert.Equal(t, 2, source.limit)

	_, found := cache.Get(ctx, Key("biz-1", "1"))
	assert.False(t, found)
	got, found := cache.Get(ctx, Key("biz-1", "3"))
	require.True(t, found)
	assert.Equal(t, "id-3", got.ID)
}

func TestWarmUp_Error(t *testing.T) {
	source := &stubSource{err: errors.New("db down")}
	err := WarmUp(context.Background(), source, NewLRUCache(2), 10, zap.NewNop())
	assert.Error(t, err)
}
