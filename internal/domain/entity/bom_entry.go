package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMEntry una línea de la lista de materiales (BOM) de un producto:
// cuántas unidades de ComponentID se necesitan por unidad de ProductID,
// con metadatos opcionales de operación. El set completo por producto se
// reemplaza siempre de forma atómica, nunca se parchea línea a línea.
type BOMEntry struct {
	ID                       string
	ProductID                string
	ComponentID              string
	QuantityPerUnit          decimal.Decimal
	Operation                string // vacío = sin operación asociada; la explosión genera una etiqueta
	OperationDurationMinutes int    // 0 = sin duración; la explosión aplica la duración por defecto
	CreatedAt                time.Time
}
