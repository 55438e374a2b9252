package manufacturing

import (
	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

// ComponentAvailability requerido-vs-disponible de un componente para una
// cantidad de orden dada. Shortage = max(0, Required − Available).
type ComponentAvailability struct {
	ComponentID   string
	ComponentName string
	Required      decimal.Decimal
	Available     decimal.Decimal
	Shortage      decimal.Decimal
}

// ComputeAvailability calcula requerido/disponible/faltante por línea de BOM
// contra las cantidades del snapshot de stock (0 si el componente no tiene fila).
func ComputeAvailability(entries []*entity.BOMEntry, orderQuantity decimal.Decimal, stockByComponent map[string]decimal.Decimal) []ComponentAvailability {
	out := make([]ComponentAvailability, 0, len(entries))
	for _, e := range entries {
		required := orderQuantity.Mul(e.QuantityPerUnit)
		available := stockByComponent[e.ComponentID]
		shortage := required.Sub(available)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		out = append(out, ComponentAvailability{
			ComponentID: e.ComponentID,
			Required:    required,
			Available:   available,
			Shortage:    shortage,
		})
	}
	return out
}

// CountShortages cuenta cuántas líneas tienen faltante.
func CountShortages(lines []ComponentAvailability) int {
	n := 0
	for _, l := range lines {
		if l.Shortage.IsPositive() {
			n++
		}
	}
	return n
}
