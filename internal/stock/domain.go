package stock

import (
	"errors"
	"time"

	"github.com/plastline/plastline-ops/internal/masterdata"
)

// SourceManualAdjustment tags ledger rows produced by the adjustment dialog.
// Production and procurement write their own source tags through database
// triggers owned by the schema, not by this application.
const SourceManualAdjustment = "manual_adjustment"

// Row is a current stock balance joined with its product.
type Row struct {
	ID        string
	ProductID string
	SKU       string
	Name      string
	Type      masterdata.ProductType
	Quantity  float64
	UOM       string
}

// LedgerEntry is one line of the stock movement history.
type LedgerEntry struct {
	ID             string
	ProductSKU     string
	ProductName    string
	QuantityChange float64
	UOM            string
	Source         string
	Notes          *string
	CreatedAt      time.Time
}

// Filter narrows the stock listing. Type and Search are ANDed; Search matches
// name or SKU case-insensitively.
type Filter struct {
	Type   masterdata.ProductType
	Search string
}

// AdjustmentInput is the manual stock adjustment request body.
type AdjustmentInput struct {
	ProductStockID string  `json:"product_stock_id"`
	ProductID      string  `json:"product_id"`
	QuantityChange float64 `json:"quantity_change"`
	UOM            string  `json:"uom"`
	Notes          string  `json:"notes"`
}

// ReorderAlert flags a material whose balance fell to or below its reorder
// level.
type ReorderAlert struct {
	ProductID    string
	SKU          string
	Name         string
	Type         masterdata.ProductType
	Quantity     float64
	ReorderLevel float64
	UOM          string
}

// Adjustment validation errors. The text is the client-facing message.
var (
	ErrMissingTarget = errors.New("product_stock_id and product_id are required")
	ErrZeroDelta     = errors.New("quantity_change must be a non-zero number")
	ErrEmptyNotes    = errors.New("notes is required")
	ErrStockNotFound = errors.New("Stock record not found")
)

var adjustmentErrors = []error{ErrMissingTarget, ErrZeroDelta, ErrEmptyNotes, ErrStockNotFound}

// IsValidationError reports whether err is a client-facing adjustment error.
func IsValidationError(err error) bool {
	for _, v := range adjustmentErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
