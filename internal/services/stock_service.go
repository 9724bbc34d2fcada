package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"store-backend/internal/cache"
	"store-backend/internal/metrics"
	"store-backend/internal/models"
	"store-backend/internal/timeutil"
)

// StockSource runs the ERP stock query for a DD-MON-RR window.
type StockSource interface {
	Stock(ctx context.Context, from, to string) ([]models.StockRow, error)
}

// StockQuery is a stock request. Dates are DD-MM-YYYY or DD-MON-RR. Unless
// both are given the window is first-of-month..today.
type StockQuery struct {
	FromDate string
	ToDate   string
	Search   string
}

// StockResult echoes the window actually queried.
type StockResult struct {
	FromDate string
	ToDate   string
	Rows     []models.StockRow
}

type StockService struct {
	src   StockSource
	cache *cache.TTLCache[string, []models.StockRow]
	clock cache.Clock
	log   *zap.Logger
}

func NewStockService(src StockSource, ttl time.Duration, clock cache.Clock, log *zap.Logger) *StockService {
	if clock == nil {
		clock = cache.SystemClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StockService{
		src:   src,
		cache: cache.NewTTLCache[string, []models.StockRow](ttl, clock),
		clock: clock,
		log:   log.Named("stock"),
	}
}

// Stock returns stock rows for the window, cached per window. Search is
// applied to the cached rows and matches item code, name or UOM without
// regard to case.
func (s *StockService) Stock(ctx context.Context, q StockQuery) (StockResult, error) {
	from, to := timeutil.DefaultStockWindow(s.clock.Now())
	qFrom, qTo := strings.TrimSpace(q.FromDate), strings.TrimSpace(q.ToDate)
	if qFrom != "" && qTo != "" {
		from, to = timeutil.ToOracleDate(qFrom), timeutil.ToOracleDate(qTo)
	}

	key := from + "|" + to
	rows, ok := s.cache.Get(key)
	if ok {
		metrics.CacheLookups.WithLabelValues("stock", "hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("stock", "miss").Inc()
		var err error
		rows, err = nonNil(s.src.Stock(ctx, from, to))
		if err != nil {
			return StockResult{}, err
		}
		s.cache.Set(key, rows)
		s.log.Debug("stock window loaded", zap.String("from", from), zap.String("to", to), zap.Int("rows", len(rows)))
	}

	return StockResult{FromDate: from, ToDate: to, Rows: filterStock(rows, q.Search)}, nil
}

// InvalidateAll drops every cached window.
func (s *StockService) InvalidateAll() {
	s.cache.InvalidateAll()
}

func filterStock(rows []models.StockRow, search string) []models.StockRow {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return rows
	}
	out := []models.StockRow{}
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.ItemCode), term) ||
			strings.Contains(strings.ToLower(r.ItemName), term) ||
			strings.Contains(strings.ToLower(r.UOM), term) {
			out = append(out, r)
		}
	}
	return out
}
