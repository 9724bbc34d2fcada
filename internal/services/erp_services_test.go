package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-backend/internal/cache"
	"store-backend/internal/models"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock { return &testClock{now: fixedNow} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeStoreIndentSource struct {
	mu          sync.Mutex
	pending     []models.StoreIndent
	history     []models.StoreIndent
	countCalls  int
	windowCalls int
	lastStart   int
	lastEnd     int
}

func (f *fakeStoreIndentSource) CountPendingIndents(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	return len(f.pending), nil
}

func (f *fakeStoreIndentSource) CountIndentHistory(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	return len(f.history), nil
}

func (f *fakeStoreIndentSource) PendingIndents(ctx context.Context, startRow, endRow int) ([]models.StoreIndent, error) {
	return f.window(f.pending, startRow, endRow), nil
}

func (f *fakeStoreIndentSource) IndentHistory(ctx context.Context, startRow, endRow int) ([]models.StoreIndent, error) {
	return f.window(f.history, startRow, endRow), nil
}

func (f *fakeStoreIndentSource) window(rows []models.StoreIndent, startRow, endRow int) []models.StoreIndent {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windowCalls++
	f.lastStart, f.lastEnd = startRow, endRow
	if startRow > len(rows) {
		return nil
	}
	if endRow > len(rows) {
		endRow = len(rows)
	}
	return append([]models.StoreIndent(nil), rows[startRow-1:endRow]...)
}

func (f *fakeStoreIndentSource) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countCalls, f.windowCalls
}

func indentLines(prefix string, n int) []models.StoreIndent {
	rows := make([]models.StoreIndent, n)
	for i := range rows {
		rows[i] = models.StoreIndent{IndentNumber: prefix + string(rune('A'+i))}
	}
	return rows
}

func TestStoreIndentService_PagesAreCached(t *testing.T) {
	src := &fakeStoreIndentSource{pending: indentLines("P", 5), history: indentLines("H", 2)}
	clock := newTestClock()
	svc := NewStoreIndentService(src, time.Minute, clock, cache.NewGroup(nil))
	ctx := context.Background()

	page, err := svc.GetPendingPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "PC", page.Rows[0].IndentNumber)

	again, err := svc.GetPendingPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, page, again)
	counts, windows := src.calls()
	assert.Equal(t, 1, counts)
	assert.Equal(t, 1, windows)

	clock.Advance(time.Minute)
	_, err = svc.GetPendingPage(ctx, 2, 2)
	require.NoError(t, err)
	_, windows = src.calls()
	assert.Equal(t, 2, windows)
}

func TestStoreIndentService_DefaultsAndIndependentCaches(t *testing.T) {
	src := &fakeStoreIndentSource{pending: indentLines("P", 3), history: indentLines("H", 1)}
	svc := NewStoreIndentService(src, time.Minute, newTestClock(), cache.NewGroup(nil))
	ctx := context.Background()

	page, err := svc.GetPendingPage(ctx, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, cache.DefaultPage, page.Page)
	assert.Equal(t, cache.DefaultPageSize, page.PageSize)
	assert.Len(t, page.Rows, 3)

	hist, err := svc.GetHistoryPage(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, hist.Total)
	assert.Equal(t, "HA", hist.Rows[0].IndentNumber)
}

func TestStoreIndentService_InvalidateCaches(t *testing.T) {
	src := &fakeStoreIndentSource{pending: indentLines("P", 1)}
	svc := NewStoreIndentService(src, time.Hour, newTestClock(), cache.NewGroup(nil))
	ctx := context.Background()

	_, err := svc.GetPendingPage(ctx, 1, 10)
	require.NoError(t, err)

	src.mu.Lock()
	src.pending = indentLines("P", 2)
	src.mu.Unlock()

	svc.InvalidateCaches(ctx)
	page, err := svc.GetPendingPage(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Rows, 2)
}

func TestStoreIndentService_IndentMutationClearsPages(t *testing.T) {
	src := &fakeStoreIndentSource{pending: indentLines("P", 1)}
	group := cache.NewGroup(nil)
	storeIndents := NewStoreIndentService(src, time.Hour, newTestClock(), group)
	indents := NewIndentService(newMemIndentStore(), group, nil)
	ctx := context.Background()

	_, err := storeIndents.GetPendingPage(ctx, 1, 10)
	require.NoError(t, err)
	_, err = indents.Create(ctx, models.CreateIndentRequest{})
	require.NoError(t, err)
	_, err = storeIndents.GetPendingPage(ctx, 1, 10)
	require.NoError(t, err)

	_, windows := src.calls()
	assert.Equal(t, 2, windows)
}

func TestStoreIndentService_AllPendingLoadsEveryRow(t *testing.T) {
	src := &fakeStoreIndentSource{pending: indentLines("P", 4)}
	svc := NewStoreIndentService(src, time.Minute, newTestClock(), cache.NewGroup(nil))

	rows, err := svc.AllPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, 1, src.lastStart)
	assert.Equal(t, 4, src.lastEnd)

	empty, err := svc.AllHistory(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

type fakeDashboardSource struct {
	mu          sync.Mutex
	calls       int
	indentErr   error
	issuedErr   error
	outStockErr error
}

func (f *fakeDashboardSource) IndentTotals(ctx context.Context) (models.Totals, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return models.Totals{Count: 12, Quantity: decimal.RequireFromString("340.5")}, f.indentErr
}

func (f *fakeDashboardSource) PurchaseOrderTotals(ctx context.Context) (models.Totals, error) {
	return models.Totals{Count: 7, Quantity: decimal.NewFromInt(90)}, nil
}

func (f *fakeDashboardSource) IssuedQuantity(ctx context.Context) (decimal.Decimal, error) {
	if f.issuedErr != nil {
		return decimal.Decimal{}, f.issuedErr
	}
	return decimal.NewFromInt(55), nil
}

func (f *fakeDashboardSource) OutOfStockCount(ctx context.Context) (int64, error) {
	if f.outStockErr != nil {
		return 0, f.outStockErr
	}
	return 3, nil
}

func (f *fakeDashboardSource) TopPurchasedItems(ctx context.Context, limit int) ([]models.RankedItem, error) {
	return []models.RankedItem{{ItemName: "BEARING 6205", UOM: "NOS", Quantity: decimal.NewFromInt(40)}}, nil
}

func (f *fakeDashboardSource) TopVendors(ctx context.Context, limit int) ([]models.RankedVendor, error) {
	return nil, nil
}

func (f *fakeDashboardSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestDashboardService_BuildsAndCaches(t *testing.T) {
	src := &fakeDashboardSource{}
	clock := newTestClock()
	svc := NewDashboardService(src, 5*time.Minute, clock, nil)
	ctx := context.Background()

	d, err := svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), d.TotalIndents)
	assert.Equal(t, "340.5", d.TotalIndentedQty.String())
	assert.Equal(t, int64(7), d.TotalPurchaseOrders)
	assert.Equal(t, "55", d.TotalIssuedQty.String())
	assert.Equal(t, int64(3), d.OutOfStockCount)
	assert.Len(t, d.TopPurchasedItems, 1)
	assert.NotNil(t, d.TopVendors)
	assert.Empty(t, d.DegradedMetrics)
	assert.True(t, d.GeneratedAt.Equal(fixedNow))

	_, err = svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.callCount())

	svc.InvalidateAll()
	_, err = svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount())

	clock.Advance(5 * time.Minute)
	_, err = svc.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.callCount())
}

func TestDashboardService_BestEffortMetricsDegrade(t *testing.T) {
	src := &fakeDashboardSource{
		issuedErr:   errors.New("ORA-00942: table or view does not exist"),
		outStockErr: errors.New("ORA-01013: user requested cancel"),
	}
	svc := NewDashboardService(src, time.Minute, newTestClock(), nil)

	d, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.True(t, d.TotalIssuedQty.IsZero())
	assert.Zero(t, d.OutOfStockCount)
	assert.Equal(t, []string{"out_of_stock_count", "total_issued_qty"}, d.DegradedMetrics)
	assert.Equal(t, int64(12), d.TotalIndents)
}

func TestDashboardService_CoreFailureAborts(t *testing.T) {
	src := &fakeDashboardSource{indentErr: errors.New("connection reset")}
	svc := NewDashboardService(src, time.Minute, newTestClock(), nil)

	_, err := svc.GetDashboard(context.Background())
	require.Error(t, err)

	src.indentErr = nil
	d, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), d.TotalIndents)
	assert.Equal(t, 2, src.callCount())
}

type fakeStockSource struct {
	calls   int
	windows []string
	rows    []models.StockRow
}

func (f *fakeStockSource) Stock(ctx context.Context, from, to string) ([]models.StockRow, error) {
	f.calls++
	f.windows = append(f.windows, from+"|"+to)
	return f.rows, nil
}

func TestStockService_WindowAndCache(t *testing.T) {
	src := &fakeStockSource{rows: []models.StockRow{
		{ItemCode: "RM001", ItemName: "Steel Rod", UOM: "KG"},
		{ItemCode: "SP010", ItemName: "Bearing 6205", UOM: "NOS"},
	}}
	svc := NewStockService(src, 5*time.Minute, newTestClock(), nil)
	ctx := context.Background()

	res, err := svc.Stock(ctx, StockQuery{})
	require.NoError(t, err)
	assert.Equal(t, "01-JUN-25", res.FromDate)
	assert.Equal(t, "02-JUN-25", res.ToDate)
	assert.Len(t, res.Rows, 2)

	res, err = svc.Stock(ctx, StockQuery{Search: "bearing"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "SP010", res.Rows[0].ItemCode)
	assert.Equal(t, 1, src.calls)

	res, err = svc.Stock(ctx, StockQuery{FromDate: "01-04-2025", ToDate: "30-04-2025", Search: "kg"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "RM001", res.Rows[0].ItemCode)
	assert.Equal(t, []string{"01-JUN-25|02-JUN-25", "01-APR-25|30-APR-25"}, src.windows)
}

func TestStockService_SearchWithoutMatches(t *testing.T) {
	src := &fakeStockSource{rows: []models.StockRow{{ItemCode: "RM001"}}}
	svc := NewStockService(src, time.Minute, newTestClock(), nil)

	res, err := svc.Stock(context.Background(), StockQuery{Search: "zzz"})
	require.NoError(t, err)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

type fakeItemSource struct{ itemCalls, categoryCalls int }

func (f *fakeItemSource) StoreIndentItems(ctx context.Context) ([]models.StoreIndentItem, error) {
	f.itemCalls++
	return []models.StoreIndentItem{{GroupName: "SPARES", ItemCode: "SP010", ItemName: "Bearing"}}, nil
}

func (f *fakeItemSource) ItemCategories(ctx context.Context) ([]string, error) {
	f.categoryCalls++
	return nil, nil
}

func TestItemService_Caches(t *testing.T) {
	src := &fakeItemSource{}
	clock := newTestClock()
	svc := NewItemService(src, 10*time.Minute, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		items, err := svc.Items(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Equal(t, 1, src.itemCalls)

	clock.Advance(10 * time.Minute)
	_, err = svc.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.itemCalls)

	svc.InvalidateAll()
	_, err = svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.categoryCalls)
}

type fakePOSource struct{}

func (fakePOSource) PendingPOs(ctx context.Context) ([]models.PurchaseOrder, error) {
	return nil, nil
}

func (fakePOSource) POHistory(ctx context.Context) ([]models.PurchaseOrder, error) {
	return nil, errors.New("ORA-12541: TNS:no listener")
}

func TestPOService(t *testing.T) {
	svc := NewPOService(fakePOSource{})

	rows, err := svc.Pending(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)

	_, err = svc.History(context.Background())
	require.Error(t, err)
}

func TestStockService_PartialWindowUsesDefault(t *testing.T) {
	src := &fakeStockSource{}
	svc := NewStockService(src, time.Minute, newTestClock(), nil)

	res, err := svc.Stock(context.Background(), StockQuery{FromDate: "01-04-2025"})
	require.NoError(t, err)
	assert.Equal(t, "01-JUN-25", res.FromDate)
	assert.Equal(t, "02-JUN-25", res.ToDate)
}
