package cache

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"store-backend/internal/metrics"
	"store-backend/internal/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 50
)

// CountFunc returns the size of the full list.
type CountFunc func(ctx context.Context) (int, error)

// PageFunc loads rows startRow..endRow inclusive, 1-based.
type PageFunc[T any] func(ctx context.Context, startRow, endRow int) ([]T, error)

type pageKey struct {
	page     int
	pageSize int
}

// PageCache is a read-through cache of (page, pageSize) windows over one
// list, with the list total cached alongside.
type PageCache[T any] struct {
	name    string
	pages   *TTLCache[pageKey, models.Page[T]]
	total   *TTLCache[struct{}, int]
	countFn CountFunc
	pageFn  PageFunc[T]
}

func NewPageCache[T any](name string, ttl time.Duration, clock Clock, count CountFunc, page PageFunc[T]) *PageCache[T] {
	return &PageCache[T]{
		name:    name,
		pages:   NewTTLCache[pageKey, models.Page[T]](ttl, clock),
		total:   NewTTLCache[struct{}, int](ttl, clock),
		countFn: count,
		pageFn:  page,
	}
}

// NormalizePage maps non-positive values to the defaults.
func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// GetPage serves a cached window when one is live; otherwise it runs the
// count and page queries concurrently and caches the combined result.
func (c *PageCache[T]) GetPage(ctx context.Context, page, pageSize int) (models.Page[T], error) {
	page, pageSize = NormalizePage(page, pageSize)
	key := pageKey{page: page, pageSize: pageSize}

	if cached, ok := c.pages.Get(key); ok {
		metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()

	startRow := (page-1)*pageSize + 1
	endRow := page * pageSize

	var (
		rows        []T
		total       int
		totalLoaded bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = c.pageFn(gctx, startRow, endRow)
		return err
	})
	if cachedTotal, ok := c.total.Get(struct{}{}); ok {
		total = cachedTotal
	} else {
		g.Go(func() error {
			var err error
			total, err = c.countFn(gctx)
			totalLoaded = err == nil
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return models.Page[T]{}, err
	}

	if totalLoaded {
		c.total.Set(struct{}{}, total)
	}
	if rows == nil {
		rows = []T{}
	}
	result := models.Page[T]{Rows: rows, Total: total, Page: page, PageSize: pageSize}
	c.pages.Set(key, result)
	return result, nil
}

// InvalidateAll drops every cached page and the cached total.
func (c *PageCache[T]) InvalidateAll() {
	c.pages.InvalidateAll()
	c.total.InvalidateAll()
}

func (c *PageCache[T]) Name() string { return c.name }
