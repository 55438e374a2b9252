package repository

import "github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"

// StockRepository puerto para el snapshot de stock por producto.
// Usado dentro de transacciones para garantizar consistencia con el ledger.
type StockRepository interface {
	Get(productID string) (*entity.StockSnapshot, error)
	Upsert(snapshot *entity.StockSnapshot) error
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// movimientos concurrentes del mismo producto.
	GetForUpdate(productID string) (*entity.StockSnapshot, error)
}
