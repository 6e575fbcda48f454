package masterdata

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProductType classifies products for business logic that branches on it.
type ProductType string

const (
	// ProductTypeFinishedGood marks sellable output (bottles, caps, preforms).
	ProductTypeFinishedGood ProductType = "FINISHED_GOOD"
	// ProductTypeRawMaterial marks purchased input resin and additives.
	ProductTypeRawMaterial ProductType = "RAW_MATERIAL"
	// ProductTypeMasterBatch marks colourant/additive concentrate.
	ProductTypeMasterBatch ProductType = "MASTER_BATCH"
	// ProductTypeRegrindMaterial marks reprocessed scrap.
	ProductTypeRegrindMaterial ProductType = "REGRIND_MATERIAL"
)

// MachineStatus describes machine availability.
type MachineStatus string

const (
	// MachineStatusActive means the machine may be assigned production runs.
	MachineStatusActive MachineStatus = "ACTIVE"
	// MachineStatusInactive means the machine is out of rotation.
	MachineStatusInactive MachineStatus = "INACTIVE"
	// MachineStatusMaintenance means the machine is under maintenance.
	MachineStatusMaintenance MachineStatus = "MAINTENANCE"
)

// Product represents a row in the products table.
type Product struct {
	ID                   string
	SKU                  string
	Name                 string
	Type                 ProductType
	UOM                  string
	Color                string
	Size                 string
	ParentRawMaterialID  *string
	ParentMasterBatchID  *string
	ReorderLevel         float64
	TargetPerShift       *float64
	CreatedAt            time.Time
}

// Machine represents a row in the machines table.
type Machine struct {
	ID           string
	Name         string
	SerialNumber string
	ProcessType  string
	Status       MachineStatus
	CreatedAt    time.Time
}

// ProductRef is the lean lookup row used to populate form selects.
type ProductRef struct {
	ID   string `json:"id"`
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// FinishedGoodRef carries the bill-of-materials hints the production form
// uses to preselect consumption inputs.
type FinishedGoodRef struct {
	ID                  string   `json:"id"`
	SKU                 string   `json:"sku"`
	Name                string   `json:"name"`
	ParentRawMaterialID *string  `json:"parent_raw_material_id"`
	ParentMasterBatchID *string  `json:"parent_master_batch_id"`
	TargetPerShift      *float64 `json:"target_production_per_shift"`
}

// MachineRef is the lean machine lookup row.
type MachineRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
}

// ReferenceData aggregates the lookups needed by the production-run form.
type ReferenceData struct {
	FinishedGoods []FinishedGoodRef `json:"finished_goods"`
	RawMaterials  []ProductRef      `json:"raw_materials"`
	MasterBatches []ProductRef      `json:"master_batches"`
	Machines      []MachineRef      `json:"machines"`
}

var typeTitler = cases.Title(language.English)

// TypeLabel renders a product type for display, e.g. "RAW_MATERIAL" as "Raw Material".
func TypeLabel(t ProductType) string {
	return typeTitler.String(strings.ToLower(strings.ReplaceAll(string(t), "_", " ")))
}

// ValidProductType reports whether t is one of the known product types.
func ValidProductType(t ProductType) bool {
	switch t {
	case ProductTypeFinishedGood, ProductTypeRawMaterial, ProductTypeMasterBatch, ProductTypeRegrindMaterial:
		return true
	}
	return false
}
