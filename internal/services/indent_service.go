package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"store-backend/internal/apperrors"
	"store-backend/internal/metrics"
	"store-backend/internal/models"
	"store-backend/internal/repositories"
	"store-backend/internal/timeutil"
)

// IndentStore is the persistence the indent service runs against.
type IndentStore interface {
	InTx(ctx context.Context, fn func(repositories.IndentTx) error) error
	List(ctx context.Context, statuses []string) ([]*models.Indent, error)
	ListByRequestNumber(ctx context.Context, requestNumber string) ([]*models.Indent, error)
}

// CacheInvalidator drops cached views derived from indent data.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// IndentService creates, updates and reads indent documents.
type IndentService struct {
	store  IndentStore
	caches CacheInvalidator
	now    func() time.Time
	log    *zap.Logger
}

func NewIndentService(store IndentStore, caches CacheInvalidator, log *zap.Logger) *IndentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IndentService{
		store:  store,
		caches: caches,
		now:    time.Now,
		log:    log.Named("indent"),
	}
}

// Create inserts one PENDING indent row, minting a request number unless
// the caller supplied one.
func (s *IndentService) Create(ctx context.Context, req models.CreateIndentRequest) (*models.Indent, error) {
	formType := models.FormTypeIndent
	if req.FormType != nil {
		formType = strings.ToUpper(strings.TrimSpace(*req.FormType))
	}
	if !models.IsValidFormType(formType) {
		return nil, apperrors.Validation("Invalid form_type. Allowed values: INDENT or REQUISITION")
	}

	now := s.now().UTC()
	sample := now
	if t, ok := parseOptionalTimestamp(req.SampleTimestamp); ok {
		sample = t
	}
	planned := sample
	if t, ok := parseOptionalTimestamp(req.Planned1); ok {
		planned = t
	}

	in := &models.Indent{
		SampleTimestamp: sample,
		FormType:        formType,
		IndentSeries:    req.IndentSeries,
		RequesterName:   req.RequesterName,
		Department:      req.Department,
		Division:        req.Division,
		ItemCode:        req.ItemCode,
		ProductName:     req.ProductName,
		RequestQty:      parseOptionalQuantity(req.RequestQty),
		UOM:             req.UOM,
		Specification:   req.Specification,
		Make:            req.Make,
		Purpose:         req.Purpose,
		CostLocation:    req.CostLocation,
		Planned1:        &planned,
		RequestStatus:   models.StatusPending,
	}
	if req.RequestNumber != nil {
		in.RequestNumber = strings.ToUpper(strings.TrimSpace(*req.RequestNumber))
		if repositories.SequenceDigits(in.RequestNumber) > repositories.MaxSequenceDigits {
			return nil, apperrors.Validation("request_number must end in at most %d digits", repositories.MaxSequenceDigits)
		}
	}

	var created *models.Indent
	err := s.store.InTx(ctx, func(tx repositories.IndentTx) error {
		if in.RequestNumber == "" {
			rn, err := tx.NextRequestNumber(ctx, formType)
			if err != nil {
				return err
			}
			in.RequestNumber = rn
		}
		var err error
		created, err = tx.Insert(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, "create")
	s.log.Info("indent created",
		zap.String("request_number", created.RequestNumber),
		zap.String("form_type", created.FormType),
		zap.Int64("id", created.ID))
	return created, nil
}

// UpdateOne applies upd to one row of the document. The row is chosen by
// explicit id, else by item code, else the oldest row of the document.
func (s *IndentService) UpdateOne(ctx context.Context, requestNumber string, upd models.IndentUpdate) (*models.Indent, error) {
	requestNumber = strings.TrimSpace(requestNumber)
	if requestNumber == "" {
		return nil, apperrors.Validation("requestNumber is required")
	}

	var updated *models.Indent
	err := s.store.InTx(ctx, func(tx repositories.IndentTx) error {
		rows, err := documentRows(ctx, tx, requestNumber)
		if err != nil {
			return err
		}
		target, err := resolveTargetRow(rows, upd)
		if err != nil {
			return err
		}
		updated, err = s.applyUpdate(ctx, tx, target, upd)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, "update")
	s.log.Info("indent updated",
		zap.String("request_number", requestNumber),
		zap.Int64("id", updated.ID),
		zap.String("request_status", updated.RequestStatus))
	return updated, nil
}

// UpdateMany applies every update in one transaction. Updates without an
// explicit id each take a distinct row from the rows not yet claimed by
// another anonymous update. Each update sees the row as left by the
// previous ones, so a row already stamped with actual_1 is not re-stamped.
func (s *IndentService) UpdateMany(ctx context.Context, requestNumber string, updates []models.IndentUpdate) ([]*models.Indent, error) {
	requestNumber = strings.TrimSpace(requestNumber)
	if requestNumber == "" {
		return nil, apperrors.Validation("requestNumber is required")
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("Update array is required")
	}

	var updated []*models.Indent
	err := s.store.InTx(ctx, func(tx repositories.IndentTx) error {
		rows, err := documentRows(ctx, tx, requestNumber)
		if err != nil {
			return err
		}

		remaining := append([]*models.Indent(nil), rows...)
		updated = make([]*models.Indent, 0, len(updates))
		for i, upd := range updates {
			pool := remaining
			if upd.HasRowID() {
				pool = rows
			}
			if len(pool) == 0 {
				return apperrors.Validation("update %d has no unclaimed row left in %s", i+1, requestNumber)
			}

			target, err := resolveTargetRow(pool, upd)
			if err != nil {
				return err
			}
			if !upd.HasRowID() {
				remaining = removeRow(remaining, target)
			}

			row, err := s.applyUpdate(ctx, tx, target, upd)
			if err != nil {
				return err
			}
			// later updates addressing the same row see its new actual_1
			*target = *row
			updated = append(updated, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, "update_many")
	s.log.Info("indent rows updated",
		zap.String("request_number", requestNumber),
		zap.Int("rows", len(updated)))
	return updated, nil
}

// List returns indents matching the filter, newest first.
func (s *IndentService) List(ctx context.Context, filter models.IndentFilter) ([]*models.Indent, error) {
	statuses, err := NormalizeStatuses(filter)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, statuses)
}

// GetByRequestNumber returns the rows of one document, oldest first. An
// unknown number yields an empty slice.
func (s *IndentService) GetByRequestNumber(ctx context.Context, requestNumber string) ([]*models.Indent, error) {
	requestNumber = strings.TrimSpace(requestNumber)
	if requestNumber == "" {
		return nil, apperrors.Validation("requestNumber is required")
	}
	return s.store.ListByRequestNumber(ctx, requestNumber)
}

// NormalizeStatuses merges, trims, upper-cases and de-duplicates the
// filter's statuses, keeping first-seen order.
func NormalizeStatuses(filter models.IndentFilter) ([]string, error) {
	raw := append([]string(nil), filter.Statuses...)
	if filter.Status != "" {
		raw = append(raw, strings.Split(filter.Status, ",")...)
	}

	seen := make(map[string]bool, len(raw))
	var statuses []string
	for _, s := range raw {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		if !models.IsValidStatus(s) {
			return nil, apperrors.Validation("Invalid request_status filter: %s", s)
		}
		seen[s] = true
		statuses = append(statuses, s)
	}
	return statuses, nil
}

func (s *IndentService) applyUpdate(ctx context.Context, tx repositories.IndentTx, target *models.Indent, upd models.IndentUpdate) (*models.Indent, error) {
	changes, err := buildChanges(target, upd, s.now())
	if err != nil {
		return nil, err
	}
	return tx.ApplyChanges(ctx, target.ID, changes)
}

func (s *IndentService) afterMutation(ctx context.Context, operation string) {
	metrics.IndentMutations.WithLabelValues(operation).Inc()
	if s.caches != nil {
		s.caches.InvalidateAll(ctx)
	}
}

func documentRows(ctx context.Context, tx repositories.IndentTx, requestNumber string) ([]*models.Indent, error) {
	rows, err := tx.ListByRequestNumber(ctx, requestNumber)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound("Indent with request_number %s not found", requestNumber)
	}
	return rows, nil
}

// resolveTargetRow picks the row an update addresses. rows must be non-empty.
func resolveTargetRow(rows []*models.Indent, upd models.IndentUpdate) (*models.Indent, error) {
	if upd.HasRowID() {
		id := strings.TrimSpace(upd.RowID.Value)
		for _, r := range rows {
			if strconv.FormatInt(r.ID, 10) == id {
				return r, nil
			}
		}
		return nil, apperrors.NotFound("Indent row with id %s not found", id)
	}

	if code, ok := upd.ItemCode.Get(); ok && code != "" {
		for _, r := range rows {
			if r.ItemCode != nil && *r.ItemCode == code {
				return r, nil
			}
		}
	}
	return rows[0], nil
}

// buildChanges validates upd against the current row. actual_1 is stamped
// with now when a non-PENDING status is set on a row that has none and the
// payload carries no usable timestamp.
func buildChanges(existing *models.Indent, upd models.IndentUpdate, now time.Time) (models.IndentChanges, error) {
	var changes models.IndentChanges

	if raw, ok := upd.RequestStatus.Get(); ok && strings.TrimSpace(raw) != "" {
		status := strings.ToUpper(strings.TrimSpace(raw))
		if !models.IsValidStatus(status) {
			return changes, apperrors.Validation("Invalid request_status")
		}
		changes.Status = &status
	}

	if raw, ok := upd.ApprovedQuantity.Get(); ok {
		qty, ok := parseQuantity(raw)
		if !ok {
			return changes, apperrors.Validation("approved_quantity must be a valid number")
		}
		changes.ApprovedQuantity = &qty
	}

	if raw, ok := upd.Actual1.Get(); ok {
		if t, ok := timeutil.ParseTimestamp(raw); ok {
			changes.Actual1 = &t
		}
	}
	if changes.Actual1 == nil && existing.Actual1 == nil &&
		changes.Status != nil && *changes.Status != models.StatusPending {
		stamped := now.UTC()
		changes.Actual1 = &stamped
	}

	if changes.IsEmpty() {
		return changes, apperrors.Validation("No valid fields provided for update")
	}
	return changes, nil
}

func removeRow(rows []*models.Indent, target *models.Indent) []*models.Indent {
	out := rows[:0:0]
	for _, r := range rows {
		if r != target {
			out = append(out, r)
		}
	}
	return out
}

func parseOptionalTimestamp(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return timeutil.ParseTimestamp(*s)
}

func parseOptionalQuantity(s *string) decimal.NullDecimal {
	if s == nil {
		return decimal.NullDecimal{}
	}
	d, ok := parseQuantity(*s)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Quantity columns are NUMERIC(14,3).
var (
	quantityLimit  = decimal.New(1, 11)
	quantityMinExp = int32(-12)
	quantityMaxExp = int32(11)
)

// parseQuantity accepts a finite number that fits a quantity column and
// rounds it to three places. The exponent is checked before any arithmetic
// so inputs like "1e50000000" are rejected without being expanded.
func parseQuantity(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, false
	}
	if exp := d.Exponent(); exp < quantityMinExp || exp > quantityMaxExp {
		return decimal.Decimal{}, false
	}
	if d.Abs().Cmp(quantityLimit) >= 0 {
		return decimal.Decimal{}, false
	}
	return d.Round(3), true
}
