package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

// ProductUseCase CRUD de productos (colaborador simple alrededor del core).
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto.
func (uc *ProductUseCase) Create(actor entity.Actor, in dto.CreateProductRequest) (*entity.Product, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		UnitMeasure: in.UnitMeasure,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

// List lista productos (paginado).
func (uc *ProductUseCase) List(limit, offset int) ([]*entity.Product, error) {
	return uc.repo.List(limit, offset)
}

// Update actualiza solo los campos explícitamente presentes en el request.
func (uc *ProductUseCase) Update(actor entity.Actor, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	product, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete elimina un producto si nada lo referencia (BOMs, órdenes, ledger).
func (uc *ProductUseCase) Delete(actor entity.Actor, id string) error {
	if !actor.CanManage() {
		return domain.ErrForbidden
	}
	if _, err := uc.GetByID(id); err != nil {
		return err
	}
	referenced, err := uc.repo.IsReferenced(id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: el producto %s está referenciado por BOMs, órdenes o movimientos", domain.ErrInUse, id)
	}
	return uc.repo.Delete(id)
}
