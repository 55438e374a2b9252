package repository

import "github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"

// WorkCenterRepository puerto de persistencia para centros de trabajo.
type WorkCenterRepository interface {
	Create(wc *entity.WorkCenter) error
	GetByID(id string) (*entity.WorkCenter, error)
	List(limit, offset int) ([]*entity.WorkCenter, error)
	Update(wc *entity.WorkCenter) error
	Delete(id string) error
}
