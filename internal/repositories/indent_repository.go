package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"store-backend/internal/apperrors"
	"store-backend/internal/db"
	"store-backend/internal/models"
)

const indentColumns = `
	id, sample_timestamp, form_type, request_number, indent_series,
	requester_name, department, division, item_code, product_name,
	request_qty, uom, specification, make, purpose, cost_location,
	planned_1, actual_1, time_delay_1::text, EXTRACT(EPOCH FROM time_delay_1)::float8,
	request_status, approved_quantity, created_at, updated_at`

// IndentTx is the set of indent operations available inside one transaction.
type IndentTx interface {
	NextRequestNumber(ctx context.Context, formType string) (string, error)
	Insert(ctx context.Context, in *models.Indent) (*models.Indent, error)
	ListByRequestNumber(ctx context.Context, requestNumber string) ([]*models.Indent, error)
	ApplyChanges(ctx context.Context, id int64, changes models.IndentChanges) (*models.Indent, error)
}

type IndentRepository struct {
	DB *pgxpool.Pool
}

func NewIndentRepository(pool *pgxpool.Pool) *IndentRepository {
	return &IndentRepository{DB: pool}
}

// InTx runs fn in one transaction; fn's error rolls everything back.
func (r *IndentRepository) InTx(ctx context.Context, fn func(IndentTx) error) error {
	return db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		return fn(indentTx{q: tx})
	})
}

// List returns indents in any of statuses, newest first. No statuses means all.
func (r *IndentRepository) List(ctx context.Context, statuses []string) ([]*models.Indent, error) {
	query, args := buildListQuery(statuses)
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, db.Classify(err)
	}
	return collectIndents(rows)
}

func (r *IndentRepository) ListByRequestNumber(ctx context.Context, requestNumber string) ([]*models.Indent, error) {
	return listByRequestNumber(ctx, r.DB, requestNumber)
}

func buildListQuery(statuses []string) (string, []any) {
	query := `SELECT ` + indentColumns + ` FROM indent`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, s := range statuses {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, s)
		}
		query += ` WHERE request_status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return query, args
}

type indentTx struct {
	q db.Querier
}

func (t indentTx) NextRequestNumber(ctx context.Context, formType string) (string, error) {
	return NextRequestNumber(ctx, t.q, formType)
}

func (t indentTx) Insert(ctx context.Context, in *models.Indent) (*models.Indent, error) {
	var requestQty *string
	if in.RequestQty.Valid {
		s := in.RequestQty.Decimal.String()
		requestQty = &s
	}

	row := t.q.QueryRow(ctx, `
		INSERT INTO indent (
			sample_timestamp, form_type, request_number, indent_series, requester_name,
			department, division, item_code, product_name, request_qty,
			uom, specification, make, purpose, cost_location,
			planned_1, request_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+indentColumns,
		in.SampleTimestamp,
		in.FormType,
		in.RequestNumber,
		in.IndentSeries,
		in.RequesterName,
		in.Department,
		in.Division,
		in.ItemCode,
		in.ProductName,
		requestQty,
		in.UOM,
		in.Specification,
		in.Make,
		in.Purpose,
		in.CostLocation,
		in.Planned1,
		in.RequestStatus,
	)
	created, err := scanIndent(row)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("insert indent: %w", err))
	}
	return created, nil
}

func (t indentTx) ListByRequestNumber(ctx context.Context, requestNumber string) ([]*models.Indent, error) {
	return listByRequestNumber(ctx, t.q, requestNumber)
}

func (t indentTx) ApplyChanges(ctx context.Context, id int64, changes models.IndentChanges) (*models.Indent, error) {
	query, args, err := BuildIndentUpdate(id, changes)
	if err != nil {
		return nil, err
	}
	updated, err := scanIndent(t.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("Indent row with id %d not found", id)
	}
	if err != nil {
		return nil, db.Classify(fmt.Errorf("update indent %d: %w", id, err))
	}
	return updated, nil
}

// BuildIndentUpdate renders the UPDATE for the fields present in changes.
// time_delay_1 is derived in SQL from the new actual_1.
func BuildIndentUpdate(id int64, changes models.IndentChanges) (string, []any, error) {
	if changes.IsEmpty() {
		return "", nil, apperrors.Validation("No valid fields provided for update")
	}

	var (
		sets []string
		args []any
	)
	next := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if changes.Status != nil {
		sets = append(sets, fmt.Sprintf("request_status = $%d", next(*changes.Status)))
	}
	if changes.ApprovedQuantity != nil {
		sets = append(sets, fmt.Sprintf("approved_quantity = $%d::numeric", next(changes.ApprovedQuantity.String())))
	}
	if changes.Actual1 != nil {
		n := next(*changes.Actual1)
		sets = append(sets,
			fmt.Sprintf("actual_1 = $%d::timestamptz", n),
			fmt.Sprintf("time_delay_1 = ($%d::timestamptz - COALESCE(planned_1, sample_timestamp))", n),
		)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE indent SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), next(id), indentColumns)
	return query, args, nil
}

func listByRequestNumber(ctx context.Context, q db.Querier, requestNumber string) ([]*models.Indent, error) {
	rows, err := q.Query(ctx, `
		SELECT `+indentColumns+`
		FROM indent
		WHERE request_number = $1
		ORDER BY created_at ASC, id ASC
	`, requestNumber)
	if err != nil {
		return nil, db.Classify(err)
	}
	return collectIndents(rows)
}

func collectIndents(rows pgx.Rows) ([]*models.Indent, error) {
	defer rows.Close()

	indents := []*models.Indent{}
	for rows.Next() {
		in, err := scanIndent(rows)
		if err != nil {
			return nil, err
		}
		indents = append(indents, in)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return indents, nil
}

func scanIndent(row pgx.Row) (*models.Indent, error) {
	var in models.Indent
	err := row.Scan(
		&in.ID,
		&in.SampleTimestamp,
		&in.FormType,
		&in.RequestNumber,
		&in.IndentSeries,
		&in.RequesterName,
		&in.Department,
		&in.Division,
		&in.ItemCode,
		&in.ProductName,
		&in.RequestQty,
		&in.UOM,
		&in.Specification,
		&in.Make,
		&in.Purpose,
		&in.CostLocation,
		&in.Planned1,
		&in.Actual1,
		&in.TimeDelay1,
		&in.TimeDelaySeconds,
		&in.RequestStatus,
		&in.ApprovedQuantity,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &in, nil
}
