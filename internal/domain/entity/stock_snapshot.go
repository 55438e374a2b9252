package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSnapshot cantidad actual de un producto: caché de lectura rápida de la
// suma corriente del ledger. Invariante: Quantity == Σ(in) − Σ(out) sobre
// todas las entradas del ledger del producto; se mantiene actualizando la fila
// en la misma transacción que cada escritura al ledger.
type StockSnapshot struct {
	ProductID string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
