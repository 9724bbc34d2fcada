package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard is the cross-entity summary served at /store-indent/dashboard.
type Dashboard struct {
	TotalIndents        int64           `json:"total_indents"`
	TotalIndentedQty    decimal.Decimal `json:"total_indented_qty"`
	TotalPurchaseOrders int64           `json:"total_purchase_orders"`
	TotalPurchasedQty   decimal.Decimal `json:"total_purchased_qty"`
	TotalIssuedQty      decimal.Decimal `json:"total_issued_qty"`
	OutOfStockCount     int64           `json:"out_of_stock_count"`
	TopPurchasedItems   []RankedItem    `json:"top_purchased_items"`
	TopVendors          []RankedVendor  `json:"top_vendors"`
	DegradedMetrics     []string        `json:"degraded_metrics,omitempty"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

type RankedItem struct {
	ItemName string          `json:"item_name"`
	UOM      string          `json:"um"`
	Quantity decimal.Decimal `json:"quantity"`
}

type RankedVendor struct {
	VendorName string          `json:"vendor_name"`
	OrderCount int64           `json:"order_count"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Totals is a count with a quantity sum.
type Totals struct {
	Count    int64
	Quantity decimal.Decimal
}
