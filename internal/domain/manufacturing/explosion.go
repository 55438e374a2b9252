// Package manufacturing contiene los servicios de dominio puros del núcleo de
// fabricación: explosión de BOM en órdenes de trabajo y cálculo de
// disponibilidad de componentes. Sin I/O; los casos de uso orquestan.
package manufacturing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

// WorkOrderSpec especificación de una orden de trabajo producida por la
// explosión de una BOM: una por línea de la BOM.
type WorkOrderSpec struct {
	Operation       string
	DurationMinutes int
	ComponentID     string
	RequiredQty     decimal.Decimal // orderQuantity × quantityPerUnit
}

// Explode expande la BOM de un producto para una cantidad de orden dada.
// Por cada línea: cantidad requerida = orderQuantity × quantityPerUnit.
// Si la línea no trae operación se genera una etiqueta secuencial; si no trae
// duración se aplica defaultDurationMinutes.
func Explode(entries []*entity.BOMEntry, orderQuantity decimal.Decimal, defaultDurationMinutes int) []WorkOrderSpec {
	specs := make([]WorkOrderSpec, 0, len(entries))
	for i, e := range entries {
		op := e.Operation
		if op == "" {
			op = fmt.Sprintf("Operación %d", i+1)
		}
		dur := e.OperationDurationMinutes
		if dur <= 0 {
			dur = defaultDurationMinutes
		}
		specs = append(specs, WorkOrderSpec{
			Operation:       op,
			DurationMinutes: dur,
			ComponentID:     e.ComponentID,
			RequiredQty:     orderQuantity.Mul(e.QuantityPerUnit),
		})
	}
	return specs
}
