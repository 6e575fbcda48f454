package stock

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/plastline/plastline-ops/internal/shared"
)

// Repository is the persistence port for stock state.
type Repository interface {
	ListStock(ctx context.Context, filter Filter) ([]Row, error)
	ListLedger(ctx context.Context, limit int) ([]LedgerEntry, error)
	ListReorderAlerts(ctx context.Context) ([]ReorderAlert, error)
	ApplyAdjustment(ctx context.Context, input AdjustmentInput, actorID string) error
}

// Auditor records who adjusted what.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service implements the stock views and the manual adjustment workflow.
type Service struct {
	repo   Repository
	audit  Auditor
	logger *slog.Logger
}

func NewService(repo Repository, audit Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns stock balances matching the filter, never nil.
func (s *Service) List(ctx context.Context, filter Filter) ([]Row, error) {
	rows, err := s.repo.ListStock(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("stock: list: %w", err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// Ledger returns the most recent movement entries, never nil.
func (s *Service) Ledger(ctx context.Context, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.repo.ListLedger(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("stock: ledger: %w", err)
	}
	if entries == nil {
		entries = []LedgerEntry{}
	}
	return entries, nil
}

// ReorderAlerts lists materials at or below their reorder level. A failure
// degrades to an empty list so the page still renders.
func (s *Service) ReorderAlerts(ctx context.Context) []ReorderAlert {
	alerts, err := s.repo.ListReorderAlerts(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("stock: reorder alerts unavailable", slog.Any("error", err))
		}
		return []ReorderAlert{}
	}
	if alerts == nil {
		alerts = []ReorderAlert{}
	}
	return alerts
}

// Adjust validates and applies a manual stock adjustment. The dialog enforces
// the same rules client-side; this is the authoritative check.
func (s *Service) Adjust(ctx context.Context, actorID string, input AdjustmentInput) error {
	if input.ProductStockID == "" || input.ProductID == "" {
		return ErrMissingTarget
	}
	if input.QuantityChange == 0 || math.IsNaN(input.QuantityChange) || math.IsInf(input.QuantityChange, 0) {
		return ErrZeroDelta
	}
	input.Notes = strings.TrimSpace(input.Notes)
	if input.Notes == "" {
		return ErrEmptyNotes
	}

	if err := s.repo.ApplyAdjustment(ctx, input, actorID); err != nil {
		if IsValidationError(err) {
			return err
		}
		return fmt.Errorf("stock: apply adjustment: %w", err)
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "stock.adjust",
			Entity:   "products_stock",
			EntityID: input.ProductStockID,
			Meta: map[string]any{
				"product_id":      input.ProductID,
				"quantity_change": input.QuantityChange,
				"uom":             input.UOM,
			},
		}); err != nil && s.logger != nil {
			s.logger.Warn("stock: audit record failed", slog.Any("error", err))
		}
	}
	return nil
}
