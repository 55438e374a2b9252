package entity

import "time"

// WoStatus estado de una orden de trabajo (enumeración cerrada).
type WoStatus string

const (
	WoStatusToDo      WoStatus = "to_do"
	WoStatusStarted   WoStatus = "started"
	WoStatusPaused    WoStatus = "paused"
	WoStatusCompleted WoStatus = "completed"
)

// woTransitions tabla de transiciones legales de la orden de trabajo.
// completed es terminal; el force-complete al cancelar la MO escribe el
// estado directamente y no pasa por esta tabla.
var woTransitions = map[WoStatus][]WoStatus{
	WoStatusToDo:      {WoStatusStarted},
	WoStatusStarted:   {WoStatusPaused, WoStatusCompleted},
	WoStatusPaused:    {WoStatusStarted, WoStatusCompleted},
	WoStatusCompleted: {},
}

// IsValid indica si el valor pertenece a la enumeración.
func (s WoStatus) IsValid() bool {
	_, ok := woTransitions[s]
	return ok
}

// CanTransitionTo consulta la tabla de transiciones.
func (s WoStatus) CanTransitionTo(target WoStatus) bool {
	for _, t := range woTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// WorkOrder orden de trabajo: una operación/paso dentro de la ejecución de una
// MO. Nunca sobrevive a su MO: se elimina en cascada al borrar una MO en draft
// y se fuerza a completed (no se borra) al cancelar una MO en vuelo.
type WorkOrder struct {
	ID                     string
	MoID                   string
	Operation              string
	Status                 WoStatus
	DurationPlannedMinutes int
	DurationDoneMinutes    int
	StartedAt              *time.Time // marca del último start; se limpia al pausar/completar
	WorkCenterID           *string
	AssignedToID           *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
