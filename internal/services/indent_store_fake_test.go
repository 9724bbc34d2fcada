package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"store-backend/internal/models"
	"store-backend/internal/repositories"
)

var trailingDigits = regexp.MustCompile(`\d+$`)

// memIndentStore serializes transactions and applies a transaction's rows
// only when fn succeeds.
type memIndentStore struct {
	mu     sync.Mutex
	rows   []*models.Indent
	nextID int64
	tick   time.Time
}

func newMemIndentStore() *memIndentStore {
	return &memIndentStore{tick: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memIndentStore) InTx(ctx context.Context, fn func(repositories.IndentTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memIndentTx{store: m, rows: cloneIndents(m.rows), nextID: m.nextID, tick: m.tick}
	if err := fn(tx); err != nil {
		return err
	}
	m.rows, m.nextID, m.tick = tx.rows, tx.nextID, tx.tick
	return nil
}

func (m *memIndentStore) List(ctx context.Context, statuses []string) ([]*models.Indent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}
	var out []*models.Indent
	for _, r := range m.rows {
		if len(want) == 0 || want[r.RequestStatus] {
			out = append(out, cloneIndent(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memIndentStore) ListByRequestNumber(ctx context.Context, requestNumber string) ([]*models.Indent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return byRequestNumber(m.rows, requestNumber), nil
}

func (m *memIndentStore) snapshot() []*models.Indent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneIndents(m.rows)
}

type memIndentTx struct {
	store  *memIndentStore
	rows   []*models.Indent
	nextID int64
	tick   time.Time
}

func (t *memIndentTx) NextRequestNumber(ctx context.Context, formType string) (string, error) {
	prefix, ok := repositories.RequestNumberPrefix(formType)
	if !ok {
		return "", fmt.Errorf("unknown form type %q", formType)
	}
	pattern := regexp.MustCompile(repositories.SequencePattern(prefix))

	highest := 0
	for _, r := range t.rows {
		if r.FormType != formType || !pattern.MatchString(r.RequestNumber) {
			continue
		}
		if n, err := strconv.Atoi(trailingDigits.FindString(r.RequestNumber)); err == nil && n > highest {
			highest = n
		}
	}
	return repositories.FormatRequestNumber(prefix, highest+1), nil
}

func (t *memIndentTx) Insert(ctx context.Context, in *models.Indent) (*models.Indent, error) {
	t.nextID++
	t.tick = t.tick.Add(time.Millisecond)

	row := cloneIndent(in)
	row.ID = t.nextID
	row.CreatedAt = t.tick
	row.UpdatedAt = t.tick
	t.rows = append(t.rows, row)
	return cloneIndent(row), nil
}

func (t *memIndentTx) ListByRequestNumber(ctx context.Context, requestNumber string) ([]*models.Indent, error) {
	return byRequestNumber(t.rows, requestNumber), nil
}

func (t *memIndentTx) ApplyChanges(ctx context.Context, id int64, changes models.IndentChanges) (*models.Indent, error) {
	for _, r := range t.rows {
		if r.ID != id {
			continue
		}
		if changes.Status != nil {
			r.RequestStatus = *changes.Status
		}
		if changes.ApprovedQuantity != nil {
			r.ApprovedQuantity = decimal.NewNullDecimal(*changes.ApprovedQuantity)
		}
		if changes.Actual1 != nil {
			actual := *changes.Actual1
			r.Actual1 = &actual
			from := r.SampleTimestamp
			if r.Planned1 != nil {
				from = *r.Planned1
			}
			secs := actual.Sub(from).Seconds()
			r.TimeDelaySeconds = &secs
		}
		return cloneIndent(r), nil
	}
	return nil, fmt.Errorf("row %d vanished", id)
}

func byRequestNumber(rows []*models.Indent, requestNumber string) []*models.Indent {
	var out []*models.Indent
	for _, r := range rows {
		if r.RequestNumber == requestNumber {
			out = append(out, cloneIndent(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneIndents(rows []*models.Indent) []*models.Indent {
	out := make([]*models.Indent, len(rows))
	for i, r := range rows {
		out[i] = cloneIndent(r)
	}
	return out
}

func cloneIndent(r *models.Indent) *models.Indent {
	c := *r
	if r.Actual1 != nil {
		a := *r.Actual1
		c.Actual1 = &a
	}
	if r.Planned1 != nil {
		p := *r.Planned1
		c.Planned1 = &p
	}
	return &c
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
