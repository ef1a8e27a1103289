package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"storefront/internal/metrics"
	"storefront/internal/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

//go:generate mockgen -source=lru.go -destination=./mocks/cache_mock.go -package=mocks OrderCache

// OrderCache - кэш заказов по ключу "бизнес/номер заказа".
// Контекст передается для сквозной трассировки.
type OrderCache interface {
	Set(ctx context.Context, key string, order *model.Order)
	Get(ctx context.Context, key string) (*model.Order, bool)
}

// RecentOrdersSource - источник заказов для прогрева.
type RecentOrdersSource interface {
	GetRecentOrders(ctx context.Context, limit int) ([]model.Order, error)
}

// Key строит ключ кэша: номера заказов уникальны только внутри бизнеса.
func Key(businessID, orderNumber string) string {
	return fmt.Sprintf("%s/%s", businessID, orderNumber)
}

// lruCache реализует LRU (Least Recently Used) кэш.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	queue    *list.List
	tracer   trace.Tracer
}

type cacheItem struct {
	key   string
	order *model.Order
}

// NewLRUCache создает новый LRU-кэш с заданной емкостью.
func NewLRUCache(capacity int) OrderCache {
	return &lruCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
		tracer:   otel.Tracer("lru-cache"),
	}
}

func (c *lruCache) Set(ctx context.Context, key string, order *model.Order) {
	_, span := c.tracer.Start(ctx, "Cache.Set")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity <= 0 {
		return
	}

	if element, exists := c.items[key]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*cacheItem).order = order
		return
	}

	if c.queue.Len() >= c.capacity {
		c.removeOldest()
	}

	element := c.queue.PushFront(&cacheItem{key: key, order: order})
	c.items[key] = element

	metrics.CacheSize.Set(float64(c.queue.Len()))
}

// Get также считает попадания и промахи.
func (c *lruCache) Get(ctx context.Context, key string) (*model.Order, bool) {
	_, span := c.tracer.Start(ctx, "Cache.Get")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		c.queue.MoveToFront(element)
		metrics.CacheHits.Inc()
		return element.Value.(*cacheItem).order, true
	}

	metrics.CacheMisses.Inc()
	return nil, false
}

// removeOldest удаляет самый старый элемент (мьютекс уже захвачен).
func (c *lruCache) removeOldest() {
	element := c.queue.Back()
	if element != nil {
		item := c.queue.Remove(element).(*cacheItem)
		delete(c.items, item.key)

		metrics.CacheEvictions.Inc()
		metrics.CacheSize.Set(float64(c.queue.Len()))
	}
}

// WarmUp загружает последние заказы из БД в кэш. Заказы идут от новых к старым,
// поэтому заполняются в обратном порядке: самые свежие остаются наиболее "молодыми".
func WarmUp(ctx context.Context, source RecentOrdersSource, cache OrderCache, limit int, logger *zap.Logger) error {
	if limit <= 0 {
		return nil
	}
	logger.Info("выполняется прогрев кэша", zap.Int("limit", limit))

	orders, err := source.GetRecentOrders(ctx, limit)
	if err != nil {
		return fmt.Errorf("не удалось загрузить заказы для прогрева: %w", err)
	}

	for i := len(orders) - 1; i >= 0; i-- {
		order := orders[i]
		cache.Set(ctx, Key(order.BusinessID, order.OrderNumber), &order)
	}

	logger.Info("кэш прогрет", zap.Int("orders", len(orders)))
	return nil
}
