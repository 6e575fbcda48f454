package production

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository stores production runs in PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

// insertRunQuery builds the INSERT for a run. started_at and completed_at
// only join the column list when the client supplied them, leaving absent
// columns to the table defaults.
func insertRunQuery(run Run) (string, []any) {
	cols := []string{
		"product_id", "machine_id", "target_quantity", "actual_pieces_produced",
		"waste_quantity", "raw_material_id", "raw_material_bags_used",
		"master_batch_id", "master_batch_bags_used", "shift", "created_by",
	}
	args := []any{
		run.ProductID, run.MachineID, run.TargetQuantity, run.ActualPiecesProduced,
		run.WasteQuantity, run.RawMaterialID, run.RawMaterialBagsUsed,
		run.MasterBatchID, run.MasterBatchBagsUsed, string(run.Shift), run.CreatedBy,
	}
	if run.StartedAt != nil {
		cols = append(cols, "started_at")
		args = append(args, *run.StartedAt)
	}
	if run.CompletedAt != nil {
		cols = append(cols, "completed_at")
		args = append(args, *run.CompletedAt)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	q := "INSERT INTO production_runs (" + strings.Join(cols, ", ") +
		") VALUES (" + strings.Join(placeholders, ", ") + ") RETURNING id::text"
	return q, args
}

func (r *PGRepository) InsertRun(ctx context.Context, run Run) (string, error) {
	q, args := insertRunQuery(run)

	var id string
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// A referenced product or machine vanished between validation and
			// insert. Same generic 500 for the client, labelled for the log.
			return "", fmt.Errorf("insert production run: stale product or machine reference: %w", err)
		}
		return "", fmt.Errorf("insert production run: %w", err)
	}
	return id, nil
}

func (r *PGRepository) ListRecent(ctx context.Context, limit int) ([]RunSummary, error) {
	const q = `
		SELECT pr.id::text, p.sku, p.name, m.name, pr.shift,
		       pr.target_quantity, pr.actual_pieces_produced, pr.waste_quantity,
		       pr.created_at
		FROM production_runs pr
		JOIN products p ON p.id = pr.product_id
		JOIN machines m ON m.id = pr.machine_id
		ORDER BY pr.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list production runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(
			&rs.ID, &rs.ProductSKU, &rs.ProductName, &rs.MachineName, &rs.Shift,
			&rs.TargetQuantity, &rs.ActualPiecesProduced, &rs.WasteQuantity,
			&rs.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan production run: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}
