package entity

import "time"

// Product producto fabricable o componente del inventario.
// Puede nacer como placeholder vacío al crear una MO sin producto (la orden
// existe antes de que el producto esté completamente especificado).
// Nunca se elimina mientras esté referenciado por BOM, órdenes o ledger.
type Product struct {
	ID          string
	Name        string
	Description string
	UnitMeasure string // unidad de medida: "unidad", "kg", "m", etc.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
