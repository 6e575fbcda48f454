package production

import (
	"errors"
	"time"
)

// Shift enumerates the work periods a run can be logged against.
type Shift string

const (
	// ShiftDay is the day shift.
	ShiftDay Shift = "DAY"
	// ShiftNight is the night shift.
	ShiftNight Shift = "NIGHT"
)

// ValidShift reports whether s is an accepted shift value. Matching is
// case-sensitive on purpose; the clients send the canonical constants.
func ValidShift(s Shift) bool {
	return s == ShiftDay || s == ShiftNight
}

// RunInput is the create request body for a production run. The three
// quantity counters are pointers so an omitted key is distinguishable from
// an explicit zero; all three are required.
type RunInput struct {
	ProductID            string     `json:"product_id"`
	MachineID            string     `json:"machine_id"`
	TargetQuantity       float64    `json:"target_quantity"`
	ActualPiecesProduced *float64   `json:"actual_pieces_produced"`
	WasteQuantity        float64    `json:"waste_quantity"`
	RawMaterialID        string     `json:"raw_material_id"`
	RawMaterialBagsUsed  *float64   `json:"raw_material_bags_used"`
	MasterBatchID        string     `json:"master_batch_id"`
	MasterBatchBagsUsed  *float64   `json:"master_batch_bags_used"`
	Shift                string     `json:"shift"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// Run is the persisted production-run record.
type Run struct {
	ID                   string
	ProductID            string
	MachineID            string
	TargetQuantity       float64
	ActualPiecesProduced float64
	WasteQuantity        float64
	RawMaterialID        *string
	RawMaterialBagsUsed  float64
	MasterBatchID        *string
	MasterBatchBagsUsed  float64
	Shift                Shift
	StartedAt            *time.Time
	CompletedAt          *time.Time
	CreatedBy            string
	CreatedAt            time.Time
}

// RunSummary is the denormalised row shown on the production page.
type RunSummary struct {
	ID                   string
	ProductSKU           string
	ProductName          string
	MachineName          string
	Shift                Shift
	TargetQuantity       float64
	ActualPiecesProduced float64
	WasteQuantity        float64
	CreatedAt            time.Time
}

// Validation errors, in the order the recorder checks them. The text is the
// client-facing message.
var (
	ErrMissingFields     = errors.New("product_id, machine_id, and shift are required")
	ErrInvalidShift      = errors.New("shift must be DAY or NIGHT")
	ErrInvalidPieces     = errors.New("actual_pieces_produced must be a non-negative number")
	ErrInvalidRawBags    = errors.New("raw_material_bags_used must be a non-negative number")
	ErrInvalidMasterBags = errors.New("master_batch_bags_used must be a non-negative number")
	ErrProductNotFound   = errors.New("Product not found")
	ErrProductNotFG      = errors.New("Product must be a FINISHED_GOOD type")
	ErrMachineNotFound   = errors.New("Machine not found")
	ErrMachineNotActive  = errors.New("Machine must be in ACTIVE status")
)

var validationErrors = []error{
	ErrMissingFields,
	ErrInvalidShift,
	ErrInvalidPieces,
	ErrInvalidRawBags,
	ErrInvalidMasterBags,
	ErrProductNotFound,
	ErrProductNotFG,
	ErrMachineNotFound,
	ErrMachineNotActive,
}

// IsValidationError reports whether err is a client-facing validation error
// rather than a persistence failure.
func IsValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
