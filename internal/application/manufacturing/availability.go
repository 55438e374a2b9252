package manufacturing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	mfg "github.com/amoreX/nmitoddo-back-sub000/internal/domain/manufacturing"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

// AvailabilityUseCase motor de disponibilidad y validación previa a confirmar.
// Es consultivo: la transición draft→confirmed no lo usa como compuerta dura
// (comportamiento permisivo heredado); los callers que quieran bloquear deben
// llamar Validate antes de Transition.
type AvailabilityUseCase struct {
	moRepo         repository.ManufacturingOrderRepository
	woRepo         repository.WorkOrderRepository
	bomRepo        repository.BOMRepository
	stockRepo      repository.StockRepository
	productRepo    repository.ProductRepository
	workCenterRepo repository.WorkCenterRepository

	assigneeActiveMOLimit int
}

// NewAvailabilityUseCase construye el motor.
func NewAvailabilityUseCase(
	moRepo repository.ManufacturingOrderRepository,
	woRepo repository.WorkOrderRepository,
	bomRepo repository.BOMRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	workCenterRepo repository.WorkCenterRepository,
	assigneeActiveMOLimit int,
) *AvailabilityUseCase {
	if assigneeActiveMOLimit <= 0 {
		assigneeActiveMOLimit = 5
	}
	return &AvailabilityUseCase{
		moRepo:                moRepo,
		woRepo:                woRepo,
		bomRepo:               bomRepo,
		stockRepo:             stockRepo,
		productRepo:           productRepo,
		workCenterRepo:        workCenterRepo,
		assigneeActiveMOLimit: assigneeActiveMOLimit,
	}
}

// CheckAvailability calcula requerido-vs-disponible por componente de la BOM
// del producto de la MO, leyendo el snapshot de stock.
func (uc *AvailabilityUseCase) CheckAvailability(moID string) (*dto.AvailabilityDTO, error) {
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, fmt.Errorf("%w: orden de fabricación %s", domain.ErrNotFound, moID)
	}
	return uc.checkAvailabilityForOrder(mo)
}

func (uc *AvailabilityUseCase) checkAvailabilityForOrder(mo *entity.ManufacturingOrder) (*dto.AvailabilityDTO, error) {
	entries, err := uc.bomRepo.ListByProduct(mo.ProductID)
	if err != nil {
		return nil, err
	}
	stockBy := make(map[string]decimal.Decimal, len(entries))
	names := make(map[string]string, len(entries))
	for _, e := range entries {
		snapshot, err := uc.stockRepo.Get(e.ComponentID)
		if err != nil {
			return nil, err
		}
		stockBy[e.ComponentID] = snapshot.Quantity
		if p, err := uc.productRepo.GetByID(e.ComponentID); err == nil && p != nil {
			names[e.ComponentID] = p.Name
		}
	}
	lines := mfg.ComputeAvailability(entries, mo.Quantity, stockBy)

	out := &dto.AvailabilityDTO{
		Components:         make([]dto.ComponentAvailabilityDTO, 0, len(lines)),
		TotalShortageCount: mfg.CountShortages(lines),
	}
	for _, l := range lines {
		out.Components = append(out.Components, dto.ComponentAvailabilityDTO{
			ComponentID:   l.ComponentID,
			ComponentName: names[l.ComponentID],
			Required:      l.Required,
			Available:     l.Available,
			Shortage:      l.Shortage,
		})
	}
	return out, nil
}

// Validate corre el checklist previo a confirmar: faltantes de componentes
// (error), carga de centros de trabajo (error al tope, advertencia cerca),
// carga del asignado (advertencia) y sanidad de la fecha límite (error si ya
// pasó, advertencia si no hay). CanConfirm solo con cero errores.
func (uc *AvailabilityUseCase) Validate(moID string) (*dto.ValidationDTO, error) {
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, fmt.Errorf("%w: orden de fabricación %s", domain.ErrNotFound, moID)
	}

	result := &dto.ValidationDTO{Errors: []string{}, Warnings: []string{}}

	// Faltantes de componentes
	availability, err := uc.checkAvailabilityForOrder(mo)
	if err != nil {
		return nil, err
	}
	for _, c := range availability.Components {
		if c.Shortage.IsPositive() {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"componente %s: se requieren %s, disponibles %s, faltan %s",
				c.ComponentID, c.Required, c.Available, c.Shortage))
		}
	}

	// Carga de los centros de trabajo referenciados por las WOs de la orden
	wos, err := uc.woRepo.ListByMO(mo.ID)
	if err != nil {
		return nil, err
	}
	checked := map[string]bool{}
	for _, wo := range wos {
		if wo.WorkCenterID == nil || checked[*wo.WorkCenterID] {
			continue
		}
		checked[*wo.WorkCenterID] = true
		wc, err := uc.workCenterRepo.GetByID(*wo.WorkCenterID)
		if err != nil {
			return nil, err
		}
		if wc == nil || wc.Capacity <= 0 {
			continue
		}
		active, err := uc.woRepo.CountActiveByWorkCenter(wc.ID)
		if err != nil {
			return nil, err
		}
		switch {
		case active >= wc.Capacity:
			result.Errors = append(result.Errors, fmt.Sprintf(
				"centro de trabajo %s al tope: %d órdenes activas, capacidad %d", wc.Name, active, wc.Capacity))
		case active >= wc.Capacity-1:
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"centro de trabajo %s cerca del tope: %d órdenes activas, capacidad %d", wc.Name, active, wc.Capacity))
		}
	}

	// Carga del asignado
	if mo.AssignedToID != nil {
		active, err := uc.moRepo.CountActiveByAssignee(*mo.AssignedToID)
		if err != nil {
			return nil, err
		}
		if active >= uc.assigneeActiveMOLimit {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"el asignado ya tiene %d órdenes activas (umbral %d)", active, uc.assigneeActiveMOLimit))
		}
	}

	// Sanidad de la fecha límite
	switch {
	case mo.Deadline == nil:
		result.Warnings = append(result.Warnings, "la orden no tiene fecha límite")
	case mo.Deadline.Before(time.Now()):
		result.Errors = append(result.Errors, fmt.Sprintf(
			"la fecha límite %s ya pasó", mo.Deadline.Format(time.RFC3339)))
	}

	result.CanConfirm = len(result.Errors) == 0
	return result, nil
}
