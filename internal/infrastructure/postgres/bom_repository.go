package postgres

import (
	"context"
	"fmt"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación de BOMRepository sobre PostgreSQL (usable con pool o tx).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// ListByProduct devuelve las líneas de la BOM de un producto.
func (r *BOMRepo) ListByProduct(productID string) ([]*entity.BOMEntry, error) {
	query := `
		SELECT id, product_id, component_id, quantity_per_unit, operation, operation_duration_minutes, created_at
		FROM bom_entries WHERE product_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list bom entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.BOMEntry
	for rows.Next() {
		var e entity.BOMEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.ComponentID, &e.QuantityPerUnit,
			&e.Operation, &e.OperationDurationMinutes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bom entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Exists indica si el producto ya tiene BOM.
func (r *BOMRepo) Exists(productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM bom_entries WHERE product_id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check bom exists: %w", err)
	}
	return exists, nil
}

// ReplaceSet borra el set existente e inserta el nuevo. Llamar dentro de una
// transacción: el reemplazo es atómico o no es.
func (r *BOMRepo) ReplaceSet(productID string, entries []*entity.BOMEntry) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM bom_entries WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete bom set: %w", err)
	}
	query := `
		INSERT INTO bom_entries (id, product_id, component_id, quantity_per_unit, operation, operation_duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, e := range entries {
		if _, err := r.q.Exec(context.Background(), query,
			e.ID, e.ProductID, e.ComponentID, e.QuantityPerUnit,
			e.Operation, e.OperationDurationMinutes, e.CreatedAt); err != nil {
			return fmt.Errorf("insert bom entry: %w", err)
		}
	}
	return nil
}

// DeleteByProduct elimina todas las líneas de la BOM del producto.
func (r *BOMRepo) DeleteByProduct(productID string) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM bom_entries WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete bom: %w", err)
	}
	return nil
}
