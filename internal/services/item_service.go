package services

import (
	"context"
	"time"

	"store-backend/internal/cache"
	"store-backend/internal/metrics"
	"store-backend/internal/models"
)

// ItemSource reads the store item master.
type ItemSource interface {
	StoreIndentItems(ctx context.Context) ([]models.StoreIndentItem, error)
	ItemCategories(ctx context.Context) ([]string, error)
}

// ItemService caches the item master and its categories.
type ItemService struct {
	src        ItemSource
	items      *cache.TTLCache[struct{}, []models.StoreIndentItem]
	categories *cache.TTLCache[struct{}, []string]
}

func NewItemService(src ItemSource, ttl time.Duration, clock cache.Clock) *ItemService {
	return &ItemService{
		src:        src,
		items:      cache.NewTTLCache[struct{}, []models.StoreIndentItem](ttl, clock),
		categories: cache.NewTTLCache[struct{}, []string](ttl, clock),
	}
}

func (s *ItemService) Items(ctx context.Context) ([]models.StoreIndentItem, error) {
	return cachedList(ctx, "items", s.items, s.src.StoreIndentItems)
}

func (s *ItemService) Categories(ctx context.Context) ([]string, error) {
	return cachedList(ctx, "item_categories", s.categories, s.src.ItemCategories)
}

// InvalidateAll drops both cached lists.
func (s *ItemService) InvalidateAll() {
	s.items.InvalidateAll()
	s.categories.InvalidateAll()
}

func cachedList[T any](ctx context.Context, name string, c *cache.TTLCache[struct{}, []T], load func(context.Context) ([]T, error)) ([]T, error) {
	if rows, ok := c.Get(struct{}{}); ok {
		metrics.CacheLookups.WithLabelValues(name, "hit").Inc()
		return rows, nil
	}
	metrics.CacheLookups.WithLabelValues(name, "miss").Inc()

	rows, err := nonNil(load(ctx))
	if err != nil {
		return nil, err
	}
	c.Set(struct{}{}, rows)
	return rows, nil
}
