package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del ledger append-only sobre PostgreSQL (usable
// con pool o tx). No expone UPDATE ni DELETE: una corrección es una entrada
// compensatoria nueva.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta una entrada. No toca el snapshot: eso es responsabilidad
// transaccional del caller.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, product_id, movement_type, quantity, reference_type, reference_id, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.MovementType, entry.Quantity,
		entry.ReferenceType, entry.ReferenceID, entry.CreatedByID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// SumMovements agrega todas las entradas del producto. Scan completo: solo
// para reconciliación, no para lecturas normales.
func (r *LedgerRepo) SumMovements(productID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'in'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'out'), 0)
		FROM ledger_entries WHERE product_id = $1`
	var totalIn, totalOut decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&totalIn, &totalOut)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum ledger movements: %w", err)
	}
	return totalIn, totalOut, nil
}

// ListByProduct lista las entradas de un producto, más recientes primero.
func (r *LedgerRepo) ListByProduct(productID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, movement_type, quantity, reference_type, reference_id, created_by_id, created_at
		FROM ledger_entries WHERE product_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.MovementType, &e.Quantity,
			&e.ReferenceType, &e.ReferenceID, &e.CreatedByID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
