package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoStatus estado de una orden de fabricación (enumeración cerrada).
type MoStatus string

const (
	MoStatusDraft      MoStatus = "draft"
	MoStatusConfirmed  MoStatus = "confirmed"
	MoStatusInProgress MoStatus = "in_progress"
	MoStatusToClose    MoStatus = "to_close"
	MoStatusDone       MoStatus = "done"
	MoStatusCancelled  MoStatus = "cancelled"
)

// moTransitions tabla de transiciones legales como dato de primera clase:
// agregar un estado obliga a reconsiderar cada arista aquí, no en switches
// dispersos. Los estados terminales no tienen aristas de salida.
var moTransitions = map[MoStatus][]MoStatus{
	MoStatusDraft:      {MoStatusConfirmed, MoStatusCancelled},
	MoStatusConfirmed:  {MoStatusInProgress, MoStatusCancelled},
	MoStatusInProgress: {MoStatusDone, MoStatusCancelled},
	MoStatusToClose:    {MoStatusDone, MoStatusCancelled},
	MoStatusDone:       {},
	MoStatusCancelled:  {},
}

// IsValid indica si el valor pertenece a la enumeración.
func (s MoStatus) IsValid() bool {
	_, ok := moTransitions[s]
	return ok
}

// IsTerminal indica si el estado no tiene transiciones de salida.
func (s MoStatus) IsTerminal() bool {
	return len(moTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo consulta la tabla de transiciones.
func (s MoStatus) CanTransitionTo(target MoStatus) bool {
	for _, t := range moTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// MoStatuses devuelve todos los estados de la enumeración (para validación y tests).
func MoStatuses() []MoStatus {
	return []MoStatus{
		MoStatusDraft, MoStatusConfirmed, MoStatusInProgress,
		MoStatusToClose, MoStatusDone, MoStatusCancelled,
	}
}

// ActiveMoStatuses estados no terminales (borrador, confirmada, en proceso, por cerrar).
// Usado por las verificaciones de dependencias (BOM en uso, carga por asignado).
func ActiveMoStatuses() []MoStatus {
	return []MoStatus{MoStatusDraft, MoStatusConfirmed, MoStatusInProgress, MoStatusToClose}
}

// ManufacturingOrder orden de fabricación: pedido de producir Quantity unidades
// de un producto. Nace en draft y solo muta a través de la máquina de estados.
// Se elimina (hard delete) únicamente en draft; en cualquier otro estado se
// cancela (soft, vía transición).
type ManufacturingOrder struct {
	ID                string
	ProductID         string
	Quantity          decimal.Decimal
	Status            MoStatus
	ScheduleStartDate *time.Time
	Deadline          *time.Time
	CreatedByID       string
	AssignedToID      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
