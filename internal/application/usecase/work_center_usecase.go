package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

// WorkCenterUseCase CRUD de centros de trabajo. La capacidad es un umbral
// informativo que consume el motor de validación.
type WorkCenterUseCase struct {
	repo repository.WorkCenterRepository
}

// NewWorkCenterUseCase construye el caso de uso.
func NewWorkCenterUseCase(repo repository.WorkCenterRepository) *WorkCenterUseCase {
	return &WorkCenterUseCase{repo: repo}
}

// Create crea un centro de trabajo.
func (uc *WorkCenterUseCase) Create(actor entity.Actor, in dto.CreateWorkCenterRequest) (*entity.WorkCenter, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if in.Capacity < 0 {
		return nil, fmt.Errorf("%w: la capacidad no puede ser negativa", domain.ErrInvalidInput)
	}
	now := time.Now()
	wc := &entity.WorkCenter{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Capacity:    in.Capacity,
		CostPerHour: in.CostPerHour,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(wc); err != nil {
		return nil, err
	}
	return wc, nil
}

// GetByID obtiene un centro de trabajo.
func (uc *WorkCenterUseCase) GetByID(id string) (*entity.WorkCenter, error) {
	wc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		return nil, fmt.Errorf("%w: centro de trabajo %s", domain.ErrNotFound, id)
	}
	return wc, nil
}

// List lista centros de trabajo (paginado).
func (uc *WorkCenterUseCase) List(limit, offset int) ([]*entity.WorkCenter, error) {
	return uc.repo.List(limit, offset)
}

// Update actualiza solo los campos explícitamente presentes en el request.
func (uc *WorkCenterUseCase) Update(actor entity.Actor, id string, in dto.UpdateWorkCenterRequest) (*entity.WorkCenter, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	wc, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		wc.Name = *in.Name
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return nil, fmt.Errorf("%w: la capacidad no puede ser negativa", domain.ErrInvalidInput)
		}
		wc.Capacity = *in.Capacity
	}
	if in.CostPerHour != nil {
		if in.CostPerHour.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: el costo por hora no puede ser negativo", domain.ErrInvalidInput)
		}
		wc.CostPerHour = *in.CostPerHour
	}
	wc.UpdatedAt = time.Now()
	if err := uc.repo.Update(wc); err != nil {
		return nil, err
	}
	return wc, nil
}

// Delete elimina un centro de trabajo.
func (uc *WorkCenterUseCase) Delete(actor entity.Actor, id string) error {
	if !actor.CanManage() {
		return domain.ErrForbidden
	}
	if _, err := uc.GetByID(id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}
