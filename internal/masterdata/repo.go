package masterdata

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plastline/plastline-ops/internal/shared"
)

// Repository defines the lookup operations backed by the products and
// machines tables.
type Repository interface {
	ListFinishedGoods(ctx context.Context) ([]FinishedGoodRef, error)
	ListProductsByType(ctx context.Context, t ProductType) ([]ProductRef, error)
	ListActiveMachines(ctx context.Context) ([]MachineRef, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	GetMachine(ctx context.Context, id string) (Machine, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PostgreSQL repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) ListFinishedGoods(ctx context.Context) ([]FinishedGoodRef, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, sku, name, parent_raw_material_id::text, parent_master_batch_id::text, target_production_per_shift
FROM products WHERE type = $1 ORDER BY name`, ProductTypeFinishedGood)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []FinishedGoodRef
	for rows.Next() {
		var ref FinishedGoodRef
		if err := rows.Scan(&ref.ID, &ref.SKU, &ref.Name, &ref.ParentRawMaterialID, &ref.ParentMasterBatchID, &ref.TargetPerShift); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *PGRepository) ListProductsByType(ctx context.Context, t ProductType) ([]ProductRef, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, sku, name FROM products WHERE type = $1 ORDER BY name`, t)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []ProductRef
	for rows.Next() {
		var ref ProductRef
		if err := rows.Scan(&ref.ID, &ref.SKU, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *PGRepository) ListActiveMachines(ctx context.Context) ([]MachineRef, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, serial_number FROM machines WHERE status = $1 ORDER BY name`, MachineStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []MachineRef
	for rows.Next() {
		var ref MachineRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.SerialNumber); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT id::text, sku, name, type, uom, COALESCE(color, ''), COALESCE(size, ''),
parent_raw_material_id::text, parent_master_batch_id::text, COALESCE(reorder_level, 0), target_production_per_shift, created_at
FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.SKU, &p.Name, &p.Type, &p.UOM, &p.Color, &p.Size, &p.ParentRawMaterialID, &p.ParentMasterBatchID, &p.ReorderLevel, &p.TargetPerShift, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PGRepository) GetMachine(ctx context.Context, id string) (Machine, error) {
	var m Machine
	err := r.pool.QueryRow(ctx, `SELECT id::text, name, serial_number, COALESCE(process_type, ''), status, created_at FROM machines WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.SerialNumber, &m.ProcessType, &m.Status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Machine{}, shared.ErrNotFound
		}
		return Machine{}, err
	}
	return m, nil
}

var _ Repository = (*PGRepository)(nil)
