package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FormTypeIndent      = "INDENT"
	FormTypeRequisition = "REQUISITION"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

var validFormTypes = map[string]bool{
	FormTypeIndent:      true,
	FormTypeRequisition: true,
}

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusApproved:  true,
	StatusRejected:  true,
	StatusCancelled: true,
}

func IsValidFormType(s string) bool { return validFormTypes[s] }

func IsValidStatus(s string) bool { return validStatuses[s] }

// Indent is one line of an indent or requisition document. All lines of a
// submission share RequestNumber.
type Indent struct {
	ID               int64               `json:"id"`
	SampleTimestamp  time.Time           `json:"sample_timestamp"`
	FormType         string              `json:"form_type"`
	RequestNumber    string              `json:"request_number"`
	IndentSeries     *string             `json:"indent_series"`
	RequesterName    *string             `json:"requester_name"`
	Department       *string             `json:"department"`
	Division         *string             `json:"division"`
	ItemCode         *string             `json:"item_code"`
	ProductName      *string             `json:"product_name"`
	RequestQty       decimal.NullDecimal `json:"request_qty"`
	UOM              *string             `json:"uom"`
	Specification    *string             `json:"specification"`
	Make             *string             `json:"make"`
	Purpose          *string             `json:"purpose"`
	CostLocation     *string             `json:"cost_location"`
	Planned1         *time.Time          `json:"planned_1"`
	Actual1          *time.Time          `json:"actual_1"`
	TimeDelay1       *string             `json:"time_delay_1"` // Postgres interval text, e.g. "2 days 03:00:00"
	TimeDelaySeconds *float64            `json:"time_delay_1_seconds,omitempty"`
	RequestStatus    string              `json:"request_status"`
	ApprovedQuantity decimal.NullDecimal `json:"approved_quantity"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// IndentChanges is a validated set of decision fields to write to one row.
// Nil fields are left untouched.
type IndentChanges struct {
	Status           *string
	ApprovedQuantity *decimal.Decimal
	Actual1          *time.Time
}

func (c IndentChanges) IsEmpty() bool {
	return c.Status == nil && c.ApprovedQuantity == nil && c.Actual1 == nil
}

// IndentFilter selects indents by status. Status is a comma-separated list,
// Statuses an explicit one; both are merged.
type IndentFilter struct {
	Status   string
	Statuses []string
}
