package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"store-backend/internal/apperrors"
	"store-backend/internal/cache"
	"store-backend/internal/metrics"
	"store-backend/internal/models"
)

const dashboardTopN = 10

// DashboardSource runs the aggregate ERP queries behind the dashboard.
type DashboardSource interface {
	IndentTotals(ctx context.Context) (models.Totals, error)
	PurchaseOrderTotals(ctx context.Context) (models.Totals, error)
	IssuedQuantity(ctx context.Context) (decimal.Decimal, error)
	OutOfStockCount(ctx context.Context) (int64, error)
	TopPurchasedItems(ctx context.Context, limit int) ([]models.RankedItem, error)
	TopVendors(ctx context.Context, limit int) ([]models.RankedVendor, error)
}

// DashboardService caches one dashboard snapshot.
type DashboardService struct {
	src      DashboardSource
	snapshot *cache.TTLCache[struct{}, models.Dashboard]
	clock    cache.Clock
	log      *zap.Logger
}

func NewDashboardService(src DashboardSource, ttl time.Duration, clock cache.Clock, log *zap.Logger) *DashboardService {
	if clock == nil {
		clock = cache.SystemClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{
		src:      src,
		snapshot: cache.NewTTLCache[struct{}, models.Dashboard](ttl, clock),
		clock:    clock,
		log:      log.Named("dashboard"),
	}
}

// GetDashboard returns the cached snapshot or builds a new one. Issued
// quantity and out-of-stock count fall back to zero when their queries
// fail; any other failure fails the call and nothing is cached.
func (s *DashboardService) GetDashboard(ctx context.Context) (models.Dashboard, error) {
	if d, ok := s.snapshot.Get(struct{}{}); ok {
		metrics.CacheLookups.WithLabelValues("dashboard", "hit").Inc()
		return d, nil
	}
	metrics.CacheLookups.WithLabelValues("dashboard", "miss").Inc()

	var (
		d        models.Dashboard
		mu       sync.Mutex
		degraded []string
	)
	degrade := func(metric string, err error) {
		derr := apperrors.Degraded(metric, err)
		s.log.Warn("dashboard metric degraded", zap.String("metric", metric), zap.Error(derr))
		metrics.DegradedMetrics.WithLabelValues(metric).Inc()
		mu.Lock()
		degraded = append(degraded, metric)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.src.IndentTotals(gctx)
		d.TotalIndents, d.TotalIndentedQty = t.Count, t.Quantity
		return err
	})
	g.Go(func() error {
		t, err := s.src.PurchaseOrderTotals(gctx)
		d.TotalPurchaseOrders, d.TotalPurchasedQty = t.Count, t.Quantity
		return err
	})
	g.Go(func() error {
		qty, err := s.src.IssuedQuantity(gctx)
		if err != nil {
			degrade("total_issued_qty", err)
			qty = decimal.Zero
		}
		d.TotalIssuedQty = qty
		return nil
	})
	g.Go(func() error {
		n, err := s.src.OutOfStockCount(gctx)
		if err != nil {
			degrade("out_of_stock_count", err)
			n = 0
		}
		d.OutOfStockCount = n
		return nil
	})
	g.Go(func() error {
		items, err := s.src.TopPurchasedItems(gctx, dashboardTopN)
		d.TopPurchasedItems = items
		return err
	})
	g.Go(func() error {
		vendors, err := s.src.TopVendors(gctx, dashboardTopN)
		d.TopVendors = vendors
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}

	if d.TopPurchasedItems == nil {
		d.TopPurchasedItems = []models.RankedItem{}
	}
	if d.TopVendors == nil {
		d.TopVendors = []models.RankedVendor{}
	}
	sort.Strings(degraded)
	d.DegradedMetrics = degraded
	d.GeneratedAt = s.clock.Now()

	s.snapshot.Set(struct{}{}, d)
	return d, nil
}

// InvalidateAll drops the snapshot.
func (s *DashboardService) InvalidateAll() {
	s.snapshot.InvalidateAll()
}
