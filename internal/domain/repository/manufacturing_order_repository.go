package repository

import "github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"

// ManufacturingOrderRepository puerto de persistencia para órdenes de fabricación.
type ManufacturingOrderRepository interface {
	Create(mo *entity.ManufacturingOrder) error
	GetByID(id string) (*entity.ManufacturingOrder, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// transiciones concurrentes de la misma orden.
	GetForUpdate(id string) (*entity.ManufacturingOrder, error)
	List(limit, offset int) ([]*entity.ManufacturingOrder, error)
	Update(mo *entity.ManufacturingOrder) error
	Delete(id string) error
	// CountActiveByProduct cuenta MOs del producto en estado no terminal
	// (verificación "BOM en uso").
	CountActiveByProduct(productID string) (int, error)
	// CountActiveByAssignee cuenta MOs activas asignadas a un usuario
	// (advertencia de carga del asignado).
	CountActiveByAssignee(userID string) (int, error)
}
