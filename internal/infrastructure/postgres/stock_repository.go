package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del snapshot de stock sobre PostgreSQL (usable con
// pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el snapshot de un producto (cantidad 0 si no tiene fila).
func (r *StockRepo) Get(productID string) (*entity.StockSnapshot, error) {
	query := `
		SELECT product_id, quantity, updated_at
		FROM stock_snapshots WHERE product_id = $1`
	var s entity.StockSnapshot
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&s.ProductID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockSnapshot{ProductID: productID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock snapshot: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el snapshot bloqueando la fila (SELECT FOR UPDATE):
// dos movimientos concurrentes del mismo producto se serializan aquí;
// productos distintos avanzan en paralelo.
func (r *StockRepo) GetForUpdate(productID string) (*entity.StockSnapshot, error) {
	query := `
		SELECT product_id, quantity, updated_at
		FROM stock_snapshots WHERE product_id = $1
		FOR UPDATE`
	var s entity.StockSnapshot
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&s.ProductID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockSnapshot{ProductID: productID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock snapshot for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad del snapshot.
func (r *StockRepo) Upsert(snapshot *entity.StockSnapshot) error {
	query := `
		INSERT INTO stock_snapshots (product_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, snapshot.ProductID, snapshot.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock snapshot: %w", err)
	}
	return nil
}
