package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de inventario.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// Tipos de referencia habituales de un movimiento.
const (
	ReferencePurchase   = "purchase"
	ReferenceMO         = "MO"
	ReferenceAdjustment = "adjustment"
	ReferenceSales      = "sales"
)

// LedgerEntry movimiento de inventario, registro append-only: nunca se
// actualiza ni se borra en operación normal; una corrección es una nueva
// entrada compensatoria. La suma de entradas menos salidas por producto es
// la fuente de verdad de la cantidad disponible.
type LedgerEntry struct {
	ID            string
	ProductID     string
	MovementType  string // in | out
	Quantity      decimal.Decimal // siempre > 0; el signo lo da MovementType
	ReferenceType string
	ReferenceID   *string
	CreatedByID   string
	CreatedAt     time.Time
}
