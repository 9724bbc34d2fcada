package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreIndent is one ERP indent line (view_indent_engine). The PO and
// cancellation fields are only filled for history rows.
type StoreIndent struct {
	PlannedTimestamp *time.Time          `json:"planned_timestamp"`
	IndentNumber     string              `json:"indent_number"`
	IndentDate       *time.Time          `json:"indent_date"`
	IndenterName     string              `json:"indenter_name"`
	Division         string              `json:"division"`
	Department       string              `json:"department"`
	ItemName         string              `json:"item_name"`
	UOM              string              `json:"um"`
	RequiredQty      decimal.NullDecimal `json:"required_qty"`
	Remark           string              `json:"remark"`
	Specification    string              `json:"specification"`
	CostProject      string              `json:"cost_project"`
	PONumber         string              `json:"po_no,omitempty"`
	POQty            decimal.NullDecimal `json:"po_qty,omitempty"`
	CancelledDate    *time.Time          `json:"cancelleddate,omitempty"`
	CancelledRemark  string              `json:"cancelled_remark,omitempty"`
}

// PurchaseOrder is one ERP PO line (view_order_engine, series U3).
type PurchaseOrder struct {
	PlannedTimestamp *time.Time          `json:"planned_timestamp"`
	VoucherNumber    string              `json:"vrno"`
	VoucherDate      *time.Time          `json:"vrdate"`
	VendorName       string              `json:"vendor_name"`
	ItemName         string              `json:"item_name"`
	QtyOrder         decimal.NullDecimal `json:"qtyorder"`
	UOM              string              `json:"um"`
	QtyExecute       decimal.NullDecimal `json:"qtyexecute"`
	BalanceQty       decimal.NullDecimal `json:"balance_qty,omitempty"`
}

// StockRow keeps the COLn keys the stock screen binds to.
type StockRow struct {
	ItemCode   string          `json:"COL1"`
	ItemName   string          `json:"COL2"`
	UOM        string          `json:"COL3"`
	ClosingQty decimal.Decimal `json:"COL4"`
	OpeningQty decimal.Decimal `json:"COL5"`
}

type StoreIndentItem struct {
	GroupName string `json:"groupname"`
	ItemCode  string `json:"item_code"`
	ItemName  string `json:"itemname"`
}
