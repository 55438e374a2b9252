package repository

import "github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"

// WorkOrderRepository puerto de persistencia para órdenes de trabajo.
type WorkOrderRepository interface {
	Create(wo *entity.WorkOrder) error
	// BulkCreate inserta el set completo de la explosión (llamar dentro de la
	// transacción de la transición draft→confirmed).
	BulkCreate(wos []*entity.WorkOrder) error
	GetByID(id string) (*entity.WorkOrder, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// transiciones concurrentes de la misma orden de trabajo.
	GetForUpdate(id string) (*entity.WorkOrder, error)
	ListByMO(moID string) ([]*entity.WorkOrder, error)
	Update(wo *entity.WorkOrder) error
	DeleteByMO(moID string) error
	// CountActiveByWorkCenter cuenta órdenes no completadas en un centro de
	// trabajo (verificación de carga contra su capacidad).
	CountActiveByWorkCenter(workCenterID string) (int, error)
}
