// Package bom implementa el registro de listas de materiales: el set de
// líneas por producto se crea y reemplaza siempre completo y de forma
// atómica; no existe el patch parcial de una línea.
package bom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/ports"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

// UseCase casos de uso de la BOM.
type UseCase struct {
	txRunner    ports.TxRunner
	bomRepo     repository.BOMRepository
	productRepo repository.ProductRepository
	moRepo      repository.ManufacturingOrderRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	bomRepo repository.BOMRepository,
	productRepo repository.ProductRepository,
	moRepo repository.ManufacturingOrderRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, bomRepo: bomRepo, productRepo: productRepo, moRepo: moRepo}
}

// Create registra la BOM de un producto que aún no tiene una.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateBOMRequest) ([]*entity.BOMEntry, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	exists, err := uc.bomRepo.Exists(in.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: el producto %s ya tiene BOM (usar replace)", domain.ErrAlreadyExists, in.ProductID)
	}
	return uc.writeSet(ctx, in.ProductID, in.Components)
}

// Replace reemplaza atómicamente el set completo de líneas del producto:
// borra todas las existentes e inserta las nuevas en una transacción.
func (uc *UseCase) Replace(ctx context.Context, actor entity.Actor, productID string, components []dto.BOMComponentInput) ([]*entity.BOMEntry, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	return uc.writeSet(ctx, productID, components)
}

func (uc *UseCase) writeSet(ctx context.Context, productID string, components []dto.BOMComponentInput) ([]*entity.BOMEntry, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: la BOM necesita al menos un componente", domain.ErrInvalidInput)
	}

	var missing []string
	seen := map[string]bool{}
	for _, c := range components {
		if !c.QuantityPerUnit.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad por unidad del componente %s debe ser mayor que cero", domain.ErrInvalidInput, c.ComponentID)
		}
		if c.ComponentID == productID {
			return nil, fmt.Errorf("%w: el producto %s no puede ser su propio componente", domain.ErrInvalidInput, productID)
		}
		if seen[c.ComponentID] {
			return nil, fmt.Errorf("%w: componente %s repetido en el set", domain.ErrInvalidInput, c.ComponentID)
		}
		seen[c.ComponentID] = true
		comp, err := uc.productRepo.GetByID(c.ComponentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			missing = append(missing, c.ComponentID)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrComponentNotFound, strings.Join(missing, ", "))
	}

	for _, c := range components {
		path, cyclic, err := uc.findCycle(c.ComponentID, productID, map[string]bool{})
		if err != nil {
			return nil, fmt.Errorf("verificando ciclos en la BOM: %w", err)
		}
		if cyclic {
			return nil, fmt.Errorf("%w: el componente %s contiene a %s (ciclo: %s)",
				domain.ErrInvalidInput, c.ComponentID, productID, strings.Join(append([]string{productID, c.ComponentID}, path...), " → "))
		}
	}

	now := time.Now()
	entries := make([]*entity.BOMEntry, 0, len(components))
	for _, c := range components {
		entries = append(entries, &entity.BOMEntry{
			ID:                       uuid.New().String(),
			ProductID:                productID,
			ComponentID:              c.ComponentID,
			QuantityPerUnit:          c.QuantityPerUnit,
			Operation:                c.Operation,
			OperationDurationMinutes: c.OperationDurationMinutes,
			CreatedAt:                now,
		})
	}

	err = uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		return r.BOM.ReplaceSet(productID, entries)
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// findCycle recorre el grafo de componentes desde "from" buscando "target".
// Devuelve el camino encontrado (sin los dos primeros nodos) y si hay ciclo.
// Un fallo de lectura se propaga: un recorrido incompleto no puede declarar
// el grafo libre de ciclos.
func (uc *UseCase) findCycle(from, target string, visited map[string]bool) ([]string, bool, error) {
	if visited[from] {
		return nil, false, nil
	}
	visited[from] = true
	entries, err := uc.bomRepo.ListByProduct(from)
	if err != nil {
		return nil, false, err
	}
	for _, e := range entries {
		if e.ComponentID == target {
			return []string{e.ComponentID}, true, nil
		}
		path, found, err := uc.findCycle(e.ComponentID, target, visited)
		if err != nil {
			return nil, false, err
		}
		if found {
			return append([]string{e.ComponentID}, path...), true, nil
		}
	}
	return nil, false, nil
}

// Delete elimina la BOM completa de un producto. Falla con ErrInUse si alguna
// MO del producto está en estado no terminal.
func (uc *UseCase) Delete(ctx context.Context, actor entity.Actor, productID string) error {
	if !actor.CanManage() {
		return domain.ErrForbidden
	}
	exists, err := uc.bomRepo.Exists(productID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: el producto %s no tiene BOM", domain.ErrNotFound, productID)
	}
	active, err := uc.moRepo.CountActiveByProduct(productID)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: %d órdenes de fabricación activas usan esta BOM", domain.ErrInUse, active)
	}
	return uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		return r.BOM.DeleteByProduct(productID)
	})
}

// Get devuelve las líneas de la BOM de un producto.
func (uc *UseCase) Get(productID string) ([]*entity.BOMEntry, error) {
	entries, err := uc.bomRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: el producto %s no tiene BOM", domain.ErrNotFound, productID)
	}
	return entries, nil
}

// CheckUsage informa si la BOM está en uso por órdenes activas.
func (uc *UseCase) CheckUsage(productID string) (*dto.BOMUsageResponse, error) {
	active, err := uc.moRepo.CountActiveByProduct(productID)
	if err != nil {
		return nil, err
	}
	return &dto.BOMUsageResponse{
		ProductID: productID,
		InUse:     active > 0,
		ActiveMOs: active,
	}, nil
}
