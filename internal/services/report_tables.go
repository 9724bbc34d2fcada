package services

import (
	"time"

	"github.com/shopspring/decimal"

	"store-backend/internal/models"
	"store-backend/internal/timeutil"
)

var storeIndentColumns = []Column{
	{"Planned", 24}, {"Indent No", 22}, {"Date", 18}, {"Indenter", 28},
	{"Division", 16}, {"Department", 26}, {"Item", 55}, {"UM", 10},
	{"Req Qty", 16}, {"Cost Project", 24}, {"Remark", 38},
}

var storeIndentHistoryColumns = []Column{
	{"Indent No", 22}, {"Date", 18}, {"Indenter", 26}, {"Department", 24},
	{"Item", 50}, {"UM", 10}, {"Req Qty", 16}, {"PO No", 24},
	{"PO Qty", 16}, {"Cancelled", 18}, {"Cancel Remark", 53},
}

var poColumns = []Column{
	{"Planned", 24}, {"PO No", 26}, {"PO Date", 18}, {"Vendor", 55},
	{"Item", 65}, {"UM", 10}, {"Ordered", 18}, {"Executed", 18}, {"Balance", 18},
}

func PendingIndentTable(rows []models.StoreIndent) Table {
	t := Table{Title: "Pending Store Indents", BaseName: "store-indent-pending", Columns: storeIndentColumns}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			dateTimeCell(r.PlannedTimestamp), r.IndentNumber, dateCell(r.IndentDate), r.IndenterName,
			r.Division, r.Department, r.ItemName, r.UOM,
			decimalCell(r.RequiredQty), r.CostProject, r.Remark,
		})
	}
	return t
}

func IndentHistoryTable(rows []models.StoreIndent) Table {
	t := Table{Title: "Store Indent History", BaseName: "store-indent-history", Columns: storeIndentHistoryColumns}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.IndentNumber, dateCell(r.IndentDate), r.IndenterName, r.Department,
			r.ItemName, r.UOM, decimalCell(r.RequiredQty), r.PONumber,
			decimalCell(r.POQty), dateCell(r.CancelledDate), r.CancelledRemark,
		})
	}
	return t
}

func PendingPOTable(rows []models.PurchaseOrder) Table {
	return poTable("Pending Purchase Orders", "po-pending", rows)
}

func POHistoryTable(rows []models.PurchaseOrder) Table {
	return poTable("Purchase Order History", "po-history", rows)
}

func poTable(title, base string, rows []models.PurchaseOrder) Table {
	t := Table{Title: title, BaseName: base, Columns: poColumns}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			dateTimeCell(r.PlannedTimestamp), r.VoucherNumber, dateCell(r.VoucherDate), r.VendorName,
			r.ItemName, r.UOM, decimalCell(r.QtyOrder), decimalCell(r.QtyExecute), decimalCell(r.BalanceQty),
		})
	}
	return t
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeutil.FormatIST(*t, "02-01-2006")
}

func dateTimeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeutil.FormatIST(*t, "02-01-2006 15:04")
}

func decimalCell(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
