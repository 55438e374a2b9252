package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkCenter centro de trabajo donde se ejecutan órdenes de trabajo.
// Capacity es un umbral informativo de órdenes activas simultáneas: lo usa la
// validación previa a confirmar, no hay planificación real de capacidad.
type WorkCenter struct {
	ID          string
	Name        string
	Capacity    int
	CostPerHour decimal.Decimal // informativo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
