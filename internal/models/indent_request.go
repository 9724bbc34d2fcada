package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CreateIndentRequest is the body of POST /indent. Every key is accepted in
// snake_case and camelCase. Scalar values may arrive as strings or numbers.
type CreateIndentRequest struct {
	SampleTimestamp *string
	FormType        *string
	RequestNumber   *string
	IndentSeries    *string
	RequesterName   *string
	Department      *string
	Division        *string
	ItemCode        *string
	ProductName     *string
	RequestQty      *string
	UOM             *string
	Specification   *string
	Make            *string
	Purpose         *string
	CostLocation    *string
	Planned1        *string
}

func (r *CreateIndentRequest) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f := rawFields(raw)

	r.SampleTimestamp = f.scalar("sample_timestamp", "sampleTimestamp")
	r.FormType = f.scalar("form_type", "formType")
	r.RequestNumber = f.text("request_number", "requestNumber")
	r.IndentSeries = f.scalar("indent_series", "indentSeries")
	r.RequesterName = f.scalar("requester_name", "requesterName")
	r.Department = f.scalar("department")
	r.Division = f.scalar("division")
	r.ItemCode = f.scalar("item_code", "itemCode")
	r.ProductName = f.scalar("product_name", "productName")
	r.RequestQty = f.scalar("request_qty", "requestQty")
	r.UOM = f.scalar("uom")
	r.Specification = f.scalar("specification", "specifications")
	r.Make = f.scalar("make")
	r.Purpose = f.scalar("purpose")
	r.CostLocation = f.scalar("cost_location", "costLocation")
	r.Planned1 = f.scalar("planned_1", "planned1")
	return nil
}

// IndentUpdate is one partial update of an indent row. Only fields present
// in the payload are Set.
type IndentUpdate struct {
	RowID            Optional[string]
	ItemCode         Optional[string]
	RequestStatus    Optional[string]
	ApprovedQuantity Optional[string]
	Actual1          Optional[string]
}

// HasRowID reports whether the update names its target row explicitly.
func (u IndentUpdate) HasRowID() bool {
	return u.RowID.Set && u.RowID.Value != "" && u.RowID.Value != "0"
}

func (u *IndentUpdate) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("invalid update payload: %w", err)
	}
	f := rawFields(raw)

	u.RowID = optional(f.scalar("id", "row_id", "rowId"))
	u.ItemCode = optional(f.scalar("item_code", "itemCode"))
	u.RequestStatus = optional(f.scalar("request_status", "requestStatus"))
	u.ApprovedQuantity = optional(f.scalar("approved_quantity", "approvedQuantity"))
	u.Actual1 = optional(f.scalar("actual_1", "actual1"))
	return nil
}

// ParseIndentUpdates accepts a single object, an array of objects, or an
// object carrying the array under "items". many reports whether the body
// addressed a list.
func ParseIndentUpdates(body []byte) (updates []IndentUpdate, many bool, err error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, false, fmt.Errorf("invalid update payload")
	}

	if body[0] == '[' {
		if err := json.Unmarshal(body, &updates); err != nil {
			return nil, true, fmt.Errorf("invalid update payload in array: %w", err)
		}
		return updates, true, nil
	}

	var wrapper struct {
		Items *[]IndentUpdate `json:"items"`
	}
	if body[0] == '{' && json.Unmarshal(body, &wrapper) == nil && wrapper.Items != nil {
		return *wrapper.Items, true, nil
	}

	var single IndentUpdate
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, false, err
	}
	return []IndentUpdate{single}, false, nil
}

type rawFields map[string]json.RawMessage

// scalar returns the first non-null value among keys, as text.
func (f rawFields) scalar(keys ...string) *string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || isNull(v) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return &s
		}
		text := strings.TrimSpace(string(v))
		return &text
	}
	return nil
}

// text is scalar restricted to JSON strings.
func (f rawFields) text(keys ...string) *string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok || isNull(v) {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return &s
		}
		return nil
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return len(bytes.TrimSpace(v)) == 0 || string(bytes.TrimSpace(v)) == "null"
}

func optional(p *string) Optional[string] {
	if p == nil {
		return Optional[string]{}
	}
	return Some(*p)
}
