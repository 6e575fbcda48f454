package production

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/plastline/plastline-ops/internal/masterdata"
	"github.com/plastline/plastline-ops/internal/shared"
)

// Repository persists production runs.
type Repository interface {
	InsertRun(ctx context.Context, run Run) (string, error)
	ListRecent(ctx context.Context, limit int) ([]RunSummary, error)
}

// References resolves the products and machines a run points at.
type References interface {
	GetProduct(ctx context.Context, id string) (masterdata.Product, error)
	GetMachine(ctx context.Context, id string) (masterdata.Machine, error)
}

// Auditor records who logged which run.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service validates and records production runs.
type Service struct {
	repo   Repository
	refs   References
	audit  Auditor
	logger *slog.Logger
}

func NewService(repo Repository, refs References, audit Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, refs: refs, audit: audit, logger: logger}
}

// Record validates input in a fixed order and persists the run on success,
// returning the new run id. Validation stops at the first failure.
func (s *Service) Record(ctx context.Context, actorID string, input RunInput) (string, error) {
	if input.ProductID == "" || input.MachineID == "" || input.Shift == "" {
		return "", ErrMissingFields
	}
	if !ValidShift(Shift(input.Shift)) {
		return "", ErrInvalidShift
	}
	if !requiredNonNegative(input.ActualPiecesProduced) {
		return "", ErrInvalidPieces
	}
	if !requiredNonNegative(input.RawMaterialBagsUsed) {
		return "", ErrInvalidRawBags
	}
	if !requiredNonNegative(input.MasterBatchBagsUsed) {
		return "", ErrInvalidMasterBags
	}

	product, err := s.refs.GetProduct(ctx, input.ProductID)
	if err != nil {
		return "", ErrProductNotFound
	}
	if product.Type != masterdata.ProductTypeFinishedGood {
		return "", ErrProductNotFG
	}

	machine, err := s.refs.GetMachine(ctx, input.MachineID)
	if err != nil {
		return "", ErrMachineNotFound
	}
	if machine.Status != masterdata.MachineStatusActive {
		return "", ErrMachineNotActive
	}

	run := Run{
		ProductID:            input.ProductID,
		MachineID:            input.MachineID,
		TargetQuantity:       finiteOrZero(input.TargetQuantity),
		ActualPiecesProduced: *input.ActualPiecesProduced,
		WasteQuantity:        finiteOrZero(input.WasteQuantity),
		RawMaterialID:        optionalID(input.RawMaterialID),
		RawMaterialBagsUsed:  *input.RawMaterialBagsUsed,
		MasterBatchID:        optionalID(input.MasterBatchID),
		MasterBatchBagsUsed:  *input.MasterBatchBagsUsed,
		Shift:                Shift(input.Shift),
		StartedAt:            input.StartedAt,
		CompletedAt:          input.CompletedAt,
		CreatedBy:            actorID,
	}

	id, err := s.repo.InsertRun(ctx, run)
	if err != nil {
		return "", fmt.Errorf("production: insert run: %w", err)
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "production_run.create",
			Entity:   "production_runs",
			EntityID: id,
			Meta: map[string]any{
				"product_id": input.ProductID,
				"machine_id": input.MachineID,
				"shift":      input.Shift,
			},
		}); err != nil && s.logger != nil {
			s.logger.Warn("production: audit record failed", slog.Any("error", err))
		}
	}

	return id, nil
}

// Recent returns the latest runs for the production page.
func (s *Service) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("production: list recent: %w", err)
	}
	if rows == nil {
		rows = []RunSummary{}
	}
	return rows, nil
}

// requiredNonNegative rejects a nil pointer the same way as a negative or
// non-finite value; an omitted counter must not record as zero.
func requiredNonNegative(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v >= 0
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
