package repository

import (
	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

// LedgerRepository puerto de persistencia para el ledger de movimientos.
// Solo inserta y agrega: el ledger es append-only.
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	// SumMovements agrega todas las entradas del producto (scan completo,
	// solo para reconciliación; no es el camino caliente de lectura).
	SumMovements(productID string) (totalIn, totalOut decimal.Decimal, err error)
	ListByProduct(productID string, limit, offset int) ([]*entity.LedgerEntry, error)
}
