package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSeed datos mínimos para crear el producto placeholder cuando la MO
// se crea sin product_id (la orden puede existir antes que el producto).
type ProductSeed struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	UnitMeasure string `json:"unit_measure,omitempty"`
}

// CreateMORequest body para POST /api/manufacturing-orders.
type CreateMORequest struct {
	ProductID         *string          `json:"product_id,omitempty"`
	ProductSeed       *ProductSeed     `json:"product_seed,omitempty"`
	Quantity          *decimal.Decimal `json:"quantity,omitempty"` // default 1
	ScheduleStartDate *time.Time       `json:"schedule_start_date,omitempty"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
	AssignedToID      *string          `json:"assigned_to_id,omitempty"`
}

// TransitionMORequest body para POST /api/manufacturing-orders/:id/transition.
type TransitionMORequest struct {
	Status string `json:"status"`
}

// MOResponse orden de fabricación en respuestas.
type MOResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	Quantity          decimal.Decimal  `json:"quantity"`
	Status            string           `json:"status"`
	ScheduleStartDate *time.Time       `json:"schedule_start_date,omitempty"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
	CreatedByID       string           `json:"created_by_id"`
	AssignedToID      *string          `json:"assigned_to_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	WorkOrders        []WOResponse     `json:"work_orders,omitempty"`
	Availability      *AvailabilityDTO `json:"availability,omitempty"`
}

// WOResponse orden de trabajo en respuestas.
type WOResponse struct {
	ID                     string     `json:"id"`
	MoID                   string     `json:"mo_id"`
	Operation              string     `json:"operation"`
	Status                 string     `json:"status"`
	DurationPlannedMinutes int        `json:"duration_planned_minutes"`
	DurationDoneMinutes    int        `json:"duration_done_minutes"`
	StartedAt              *time.Time `json:"started_at,omitempty"`
	WorkCenterID           *string    `json:"work_center_id,omitempty"`
	AssignedToID           *string    `json:"assigned_to_id,omitempty"`
}

// CreateWORequest body para POST /api/manufacturing-orders/:id/work-orders
// (orden de trabajo manual, fuera de la explosión de BOM).
type CreateWORequest struct {
	Operation              string  `json:"operation"`
	DurationPlannedMinutes int     `json:"duration_planned_minutes,omitempty"`
	WorkCenterID           *string `json:"work_center_id,omitempty"`
	AssignedToID           *string `json:"assigned_to_id,omitempty"`
}

// ComponentAvailabilityDTO requerido-vs-disponible de un componente.
type ComponentAvailabilityDTO struct {
	ComponentID   string          `json:"component_id"`
	ComponentName string          `json:"component_name,omitempty"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	Shortage      decimal.Decimal `json:"shortage"`
}

// AvailabilityDTO reporte de disponibilidad de componentes para una MO.
type AvailabilityDTO struct {
	Components         []ComponentAvailabilityDTO `json:"components"`
	TotalShortageCount int                        `json:"total_shortage_count"`
}

// ValidationDTO resultado del checklist previo a confirmar.
// CanConfirm es true solo con cero errores; las advertencias no bloquean.
type ValidationDTO struct {
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	CanConfirm bool     `json:"can_confirm"`
}
