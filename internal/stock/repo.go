package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plastline/plastline-ops/internal/masterdata"
	"github.com/plastline/plastline-ops/internal/platform/db"
)

// PGRepository reads and mutates stock state in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

func (r *PGRepository) ListStock(ctx context.Context, filter Filter) ([]Row, error) {
	q := `
		SELECT ps.id::text, p.id::text, p.sku, p.name, p.type, ps.quantity, ps.uom
		FROM products_stock ps
		JOIN products p ON p.id = ps.product_id`
	var (
		conds []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conds = append(conds, fmt.Sprintf("p.type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(p.name ILIKE $%d OR p.sku ILIKE $%d)", len(args), len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += "\n\t\tWHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += "\n\t\tORDER BY p.name ASC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.ProductID, &row.SKU, &row.Name, &row.Type, &row.Quantity, &row.UOM); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PGRepository) ListLedger(ctx context.Context, limit int) ([]LedgerEntry, error) {
	const q = `
		SELECT sl.id::text, p.sku, p.name, sl.quantity_change, sl.uom,
		       sl.transaction_source_table, sl.notes, sl.created_at
		FROM stock_ledger sl
		JOIN products p ON p.id = sl.product_id
		ORDER BY sl.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock ledger: %w", err)
	}
	defer rows.Close()

	var out []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductSKU, &e.ProductName, &e.QuantityChange, &e.UOM, &e.Source, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PGRepository) ListReorderAlerts(ctx context.Context) ([]ReorderAlert, error) {
	const q = `
		SELECT p.id::text, p.sku, p.name, p.type, ps.quantity, p.reorder_level, ps.uom
		FROM products_stock ps
		JOIN products p ON p.id = ps.product_id
		WHERE p.type IN ($1, $2)
		  AND p.reorder_level > 0
		  AND ps.quantity <= p.reorder_level
		ORDER BY p.name ASC`

	rows, err := r.pool.Query(ctx, q,
		string(masterdata.ProductTypeRawMaterial), string(masterdata.ProductTypeMasterBatch))
	if err != nil {
		return nil, fmt.Errorf("list reorder alerts: %w", err)
	}
	defer rows.Close()

	var out []ReorderAlert
	for rows.Next() {
		var a ReorderAlert
		if err := rows.Scan(&a.ProductID, &a.SKU, &a.Name, &a.Type, &a.Quantity, &a.ReorderLevel, &a.UOM); err != nil {
			return nil, fmt.Errorf("scan reorder alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ApplyAdjustment updates the balance and appends the ledger row in one
// transaction. The balance row is locked first so concurrent adjustments
// serialize instead of clobbering each other.
func (r *PGRepository) ApplyAdjustment(ctx context.Context, input AdjustmentInput, actorID string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var current float64
		err := tx.QueryRow(ctx,
			`SELECT quantity FROM products_stock WHERE id = $1 AND product_id = $2 FOR UPDATE`,
			input.ProductStockID, input.ProductID,
		).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrStockNotFound
			}
			return fmt.Errorf("lock stock row: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE products_stock SET quantity = quantity + $1, updated_at = NOW() WHERE id = $2`,
			input.QuantityChange, input.ProductStockID,
		)
		if err != nil {
			return fmt.Errorf("update stock balance: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO stock_ledger (product_id, quantity_change, uom, transaction_source_table, notes, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			input.ProductID, input.QuantityChange, input.UOM, SourceManualAdjustment, input.Notes, nullIfEmpty(actorID),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrStockNotFound
			}
			return fmt.Errorf("append stock ledger: %w", err)
		}
		return nil
	})
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
