package services

import (
	"context"
	"time"

	"store-backend/internal/cache"
	"store-backend/internal/models"
)

// StoreIndentSource reads ERP indent lines in 1-based row windows.
type StoreIndentSource interface {
	CountPendingIndents(ctx context.Context) (int, error)
	CountIndentHistory(ctx context.Context) (int, error)
	PendingIndents(ctx context.Context, startRow, endRow int) ([]models.StoreIndent, error)
	IndentHistory(ctx context.Context, startRow, endRow int) ([]models.StoreIndent, error)
}

// StoreIndentService serves the ERP pending and history lists through
// separate page caches.
type StoreIndentService struct {
	src     StoreIndentSource
	pending *cache.PageCache[models.StoreIndent]
	history *cache.PageCache[models.StoreIndent]
	group   *cache.Group
}

// NewStoreIndentService registers both page caches with group, so that
// InvalidateCaches and any other member of the group clear them together.
func NewStoreIndentService(src StoreIndentSource, ttl time.Duration, clock cache.Clock, group *cache.Group) *StoreIndentService {
	s := &StoreIndentService{
		src:     src,
		pending: cache.NewPageCache[models.StoreIndent]("store_indent_pending", ttl, clock, src.CountPendingIndents, src.PendingIndents),
		history: cache.NewPageCache[models.StoreIndent]("store_indent_history", ttl, clock, src.CountIndentHistory, src.IndentHistory),
		group:   group,
	}
	group.Add(s.pending)
	group.Add(s.history)
	return s
}

func (s *StoreIndentService) GetPendingPage(ctx context.Context, page, pageSize int) (models.Page[models.StoreIndent], error) {
	return s.pending.GetPage(ctx, page, pageSize)
}

func (s *StoreIndentService) GetHistoryPage(ctx context.Context, page, pageSize int) (models.Page[models.StoreIndent], error) {
	return s.history.GetPage(ctx, page, pageSize)
}

// AllPending bypasses the cache and returns every pending line, for downloads.
func (s *StoreIndentService) AllPending(ctx context.Context) ([]models.StoreIndent, error) {
	return fullWindow[models.StoreIndent](ctx, s.src.CountPendingIndents, s.src.PendingIndents)
}

// AllHistory bypasses the cache and returns every history line.
func (s *StoreIndentService) AllHistory(ctx context.Context) ([]models.StoreIndent, error) {
	return fullWindow[models.StoreIndent](ctx, s.src.CountIndentHistory, s.src.IndentHistory)
}

// InvalidateCaches clears every cache in the group, here and, when a
// publisher is attached, on the other replicas.
func (s *StoreIndentService) InvalidateCaches(ctx context.Context) {
	s.group.InvalidateAll(ctx)
}

func fullWindow[T any](ctx context.Context, count cache.CountFunc, load cache.PageFunc[T]) ([]T, error) {
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return []T{}, nil
	}
	return load(ctx, 1, total)
}
