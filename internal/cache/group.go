package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"store-backend/internal/metrics"
)

// Invalidator is anything holding cached state that can be dropped.
type Invalidator interface {
	InvalidateAll()
}

// Publisher announces an invalidation to other replicas.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Group invalidates a set of caches together and, when a Publisher is
// attached, tells the other replicas to do the same.
type Group struct {
	mu        sync.RWMutex
	members   []Invalidator
	publisher Publisher
	log       *zap.Logger
}

func NewGroup(log *zap.Logger, members ...Invalidator) *Group {
	if log == nil {
		log = zap.NewNop()
	}
	return &Group{members: members, log: log}
}

func (g *Group) Add(m Invalidator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members = append(g.members, m)
}

// SetPublisher attaches the cross-replica channel. nil detaches it.
func (g *Group) SetPublisher(p Publisher) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.publisher = p
}

// InvalidateAll clears every member locally, then publishes. A publish
// failure is logged; the local caches are already clear.
func (g *Group) InvalidateAll(ctx context.Context) {
	g.InvalidateLocal("local")

	g.mu.RLock()
	p := g.publisher
	g.mu.RUnlock()
	if p == nil {
		return
	}
	if err := p.Publish(ctx); err != nil {
		g.log.Warn("cache invalidation publish failed", zap.Error(err))
	}
}

// InvalidateLocal clears every member on this replica only.
func (g *Group) InvalidateLocal(source string) {
	g.mu.RLock()
	members := append([]Invalidator(nil), g.members...)
	g.mu.RUnlock()

	for _, m := range members {
		m.InvalidateAll()
	}
	metrics.CacheInvalidations.WithLabelValues(source).Inc()
	g.log.Debug("caches invalidated", zap.String("source", source), zap.Int("members", len(members)))
}
