// Package manufacturing implementa las máquinas de estado de órdenes de
// fabricación y órdenes de trabajo, la explosión de BOM y el motor de
// disponibilidad. Cada transición agrupa sus efectos (crear WOs, escribir
// ledger y snapshot, cambiar estado) en una sola transacción: o todo queda
// visible o la orden permanece en su estado anterior.
package manufacturing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/ports"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/stock"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	mfg "github.com/amoreX/nmitoddo-back-sub000/internal/domain/manufacturing"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
	"github.com/amoreX/nmitoddo-back-sub000/pkg/logger"
)

// OrderUseCase máquina de estados de la orden de fabricación.
type OrderUseCase struct {
	txRunner     ports.TxRunner
	moRepo       repository.ManufacturingOrderRepository
	woRepo       repository.WorkOrderRepository
	productRepo  repository.ProductRepository
	availability *AvailabilityUseCase
	log          *logger.Logger

	defaultWODurationMinutes int
}

// NewOrderUseCase construye la máquina de estados.
func NewOrderUseCase(
	txRunner ports.TxRunner,
	moRepo repository.ManufacturingOrderRepository,
	woRepo repository.WorkOrderRepository,
	productRepo repository.ProductRepository,
	availability *AvailabilityUseCase,
	log *logger.Logger,
	defaultWODurationMinutes int,
) *OrderUseCase {
	if defaultWODurationMinutes <= 0 {
		defaultWODurationMinutes = 60
	}
	return &OrderUseCase{
		txRunner:                 txRunner,
		moRepo:                   moRepo,
		woRepo:                   woRepo,
		productRepo:              productRepo,
		availability:             availability,
		log:                      log,
		defaultWODurationMinutes: defaultWODurationMinutes,
	}
}

// Create crea una MO en draft. Si no llega product_id se crea primero un
// producto placeholder (la orden puede existir antes de que el producto esté
// completamente especificado) en la misma transacción.
func (uc *OrderUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateMORequest) (*entity.ManufacturingOrder, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	quantity := decimal.NewFromInt(1)
	if in.Quantity != nil {
		if !in.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero, recibido %s", domain.ErrInvalidInput, in.Quantity)
		}
		quantity = *in.Quantity
	}

	now := time.Now()
	mo := &entity.ManufacturingOrder{
		ID:                uuid.New().String(),
		Quantity:          quantity,
		Status:            entity.MoStatusDraft,
		ScheduleStartDate: in.ScheduleStartDate,
		Deadline:          in.Deadline,
		CreatedByID:       actor.UserID,
		AssignedToID:      in.AssignedToID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		if in.ProductID != nil {
			product, err := r.Products.GetByID(*in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, *in.ProductID)
			}
			mo.ProductID = product.ID
		} else {
			seed := dto.ProductSeed{}
			if in.ProductSeed != nil {
				seed = *in.ProductSeed
			}
			placeholder := &entity.Product{
				ID:          uuid.New().String(),
				Name:        seed.Name,
				Description: seed.Description,
				UnitMeasure: seed.UnitMeasure,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := r.Products.Create(placeholder); err != nil {
				return err
			}
			mo.ProductID = placeholder.ID
		}
		return r.Orders.Create(mo)
	})
	if err != nil {
		return nil, err
	}
	return mo, nil
}

// Transition avanza la MO al estado destino si la tabla de transiciones lo
// permite, aplicando los efectos de cada transición dentro de una transacción.
// La verificación que manda es la de lockOrder, dentro de la transacción y con
// la fila bloqueada: dos transiciones concurrentes se serializan y la segunda
// relee el estado ya avanzado, de modo que los efectos (explotar la BOM,
// consumir stock) ocurren exactamente una vez.
func (uc *OrderUseCase) Transition(ctx context.Context, actor entity.Actor, moID string, target entity.MoStatus) (*entity.ManufacturingOrder, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, target)
	}
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, fmt.Errorf("%w: orden de fabricación %s", domain.ErrNotFound, moID)
	}
	// Pre-verificación sin bloqueo: corta temprano las transiciones ilegales
	// obvias antes de abrir transacción.
	if !mo.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrIllegalTransition, mo.Status, target)
	}

	switch target {
	case entity.MoStatusConfirmed:
		mo, err = uc.confirm(ctx, mo)
	case entity.MoStatusInProgress:
		mo, err = uc.start(ctx, mo.ID)
	case entity.MoStatusDone:
		mo, err = uc.complete(ctx, actor, mo.ID)
	case entity.MoStatusCancelled:
		mo, err = uc.cancel(ctx, mo.ID)
	default:
		err = fmt.Errorf("%w: %s → %s", domain.ErrIllegalTransition, mo.Status, target)
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("mo_id", mo.ID).
		Str("status", string(mo.Status)).
		Str("actor", actor.UserID).
		Msg("orden de fabricación transicionada")
	return mo, nil
}

// lockOrder relee la orden con bloqueo de fila dentro de la transacción y
// re-verifica la transición contra el estado bloqueado. Es la compuerta real
// de la máquina de estados: una transición rival ya confirmada deja aquí a la
// segunda llamada con ErrIllegalTransition.
func lockOrder(r ports.TxRepos, moID string, target entity.MoStatus) (*entity.ManufacturingOrder, error) {
	mo, err := r.Orders.GetForUpdate(moID)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, fmt.Errorf("%w: orden de fabricación %s", domain.ErrNotFound, moID)
	}
	if !mo.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrIllegalTransition, mo.Status, target)
	}
	return mo, nil
}

// confirm explota la BOM en órdenes de trabajo y confirma la orden en una
// sola transacción. La verificación de disponibilidad es consultiva: un
// faltante se registra en el log pero no bloquea (quien quiera compuerta dura
// llama Validate antes).
func (uc *OrderUseCase) confirm(ctx context.Context, stale *entity.ManufacturingOrder) (*entity.ManufacturingOrder, error) {
	if report, err := uc.availability.checkAvailabilityForOrder(stale); err != nil {
		uc.log.Warn().
			Err(err).
			Str("mo_id", stale.ID).
			Msg("no se pudo verificar disponibilidad antes de confirmar")
	} else if report.TotalShortageCount > 0 {
		uc.log.Warn().
			Str("mo_id", stale.ID).
			Int("shortages", report.TotalShortageCount).
			Msg("orden confirmada con faltantes de componentes")
	}

	now := time.Now()
	var mo *entity.ManufacturingOrder
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		var err error
		mo, err = lockOrder(r, stale.ID, entity.MoStatusConfirmed)
		if err != nil {
			return err
		}
		entries, err := r.BOM.ListByProduct(mo.ProductID)
		if err != nil {
			return err
		}
		specs := mfg.Explode(entries, mo.Quantity, uc.defaultWODurationMinutes)
		wos := make([]*entity.WorkOrder, 0, len(specs))
		for _, spec := range specs {
			wos = append(wos, &entity.WorkOrder{
				ID:                     uuid.New().String(),
				MoID:                   mo.ID,
				Operation:              spec.Operation,
				Status:                 entity.WoStatusToDo,
				DurationPlannedMinutes: spec.DurationMinutes,
				AssignedToID:           mo.AssignedToID,
				CreatedAt:              now,
				UpdatedAt:              now,
			})
		}
		if len(wos) > 0 {
			if err := r.WorkOrders.BulkCreate(wos); err != nil {
				return err
			}
		}
		mo.Status = entity.MoStatusConfirmed
		mo.UpdatedAt = now
		return r.Orders.Update(mo)
	})
	if err != nil {
		return nil, err
	}
	return mo, nil
}

// start marca la orden en proceso, estampando scheduleStartDate si no estaba.
func (uc *OrderUseCase) start(ctx context.Context, moID string) (*entity.ManufacturingOrder, error) {
	now := time.Now()
	var mo *entity.ManufacturingOrder
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		var err error
		mo, err = lockOrder(r, moID, entity.MoStatusInProgress)
		if err != nil {
			return err
		}
		if mo.ScheduleStartDate == nil {
			mo.ScheduleStartDate = &now
		}
		mo.Status = entity.MoStatusInProgress
		mo.UpdatedAt = now
		return r.Orders.Update(mo)
	})
	if err != nil {
		return nil, err
	}
	return mo, nil
}

// complete cierra la orden: exige todas las WOs completadas, consume los
// componentes de la BOM (salidas al ledger) y recibe el producto terminado
// (entrada), todo en la misma transacción que el cambio de estado. Un
// faltante de componentes aquí sí es duro: el stock nunca queda negativo.
func (uc *OrderUseCase) complete(ctx context.Context, actor entity.Actor, moID string) (*entity.ManufacturingOrder, error) {
	now := time.Now()
	var mo *entity.ManufacturingOrder
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		var err error
		mo, err = lockOrder(r, moID, entity.MoStatusDone)
		if err != nil {
			return err
		}
		wos, err := r.WorkOrders.ListByMO(mo.ID)
		if err != nil {
			return err
		}
		pending := 0
		for _, wo := range wos {
			if wo.Status != entity.WoStatusCompleted {
				pending++
			}
		}
		if pending > 0 {
			return fmt.Errorf("%w: %d de %d órdenes de trabajo sin completar", domain.ErrIncompleteWorkOrders, pending, len(wos))
		}

		entries, err := r.BOM.ListByProduct(mo.ProductID)
		if err != nil {
			return err
		}
		moRef := mo.ID
		for _, e := range entries {
			required := mo.Quantity.Mul(e.QuantityPerUnit)
			if _, err := stock.ApplyMovementInTx(r.Ledger, r.Stock, actor.UserID,
				e.ComponentID, entity.MovementTypeOut, required, entity.ReferenceMO, &moRef, now); err != nil {
				return err
			}
		}
		if _, err := stock.ApplyMovementInTx(r.Ledger, r.Stock, actor.UserID,
			mo.ProductID, entity.MovementTypeIn, mo.Quantity, entity.ReferenceMO, &moRef, now); err != nil {
			return err
		}

		mo.Status = entity.MoStatusDone
		mo.UpdatedAt = now
		return r.Orders.Update(mo)
	})
	if err != nil {
		return nil, err
	}
	return mo, nil
}

// cancel fuerza a completed las WOs no terminales (no se borran: evita estado
// colgante ambiguo) y cancela la orden.
func (uc *OrderUseCase) cancel(ctx context.Context, moID string) (*entity.ManufacturingOrder, error) {
	now := time.Now()
	var mo *entity.ManufacturingOrder
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		var err error
		mo, err = lockOrder(r, moID, entity.MoStatusCancelled)
		if err != nil {
			return err
		}
		wos, err := r.WorkOrders.ListByMO(mo.ID)
		if err != nil {
			return err
		}
		for _, wo := range wos {
			if wo.Status == entity.WoStatusCompleted {
				continue
			}
			if wo.StartedAt != nil {
				wo.DurationDoneMinutes += int(now.Sub(*wo.StartedAt).Minutes())
				wo.StartedAt = nil
			}
			wo.Status = entity.WoStatusCompleted
			wo.UpdatedAt = now
			if err := r.WorkOrders.Update(wo); err != nil {
				return err
			}
		}
		mo.Status = entity.MoStatusCancelled
		mo.UpdatedAt = now
		return r.Orders.Update(mo)
	})
	if err != nil {
		return nil, err
	}
	return mo, nil
}

// Delete elimina (hard) una MO en draft junto con sus WOs en cascada, en una
// transacción. En cualquier otro estado falla con ErrInvalidState: el caller
// debe cancelar vía transición.
func (uc *OrderUseCase) Delete(ctx context.Context, actor entity.Actor, moID string) error {
	if !actor.CanManage() {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		mo, err := r.Orders.GetForUpdate(moID)
		if err != nil {
			return err
		}
		if mo == nil {
			return fmt.Errorf("%w: orden de fabricación %s", domain.ErrNotFound, moID)
		}
		if mo.Status != entity.MoStatusDraft {
			return fmt.Errorf("%w: solo se elimina en draft, estado actual %s (usar cancelación)", domain.ErrInvalidState, mo.Status)
		}
		if err := r.WorkOrders.DeleteByMO(moID); err != nil {
			return err
		}
		return r.Orders.Delete(moID)
	})
}

// DeleteOrCancel elimina si la orden está en draft; si no, la cancela vía
// transición (soft). Es la semántica del DELETE HTTP.
func (uc *OrderUseCase) DeleteOrCancel(ctx context.Context, actor entity.Actor, moID string) error {
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return err
	}
	if mo == nil {
		return fmt.Errorf("%w: orden de fabricación %s", domain.ErrNotFound, moID)
	}
	if mo.Status == entity.MoStatusDraft {
		return uc.Delete(ctx, actor, moID)
	}
	_, err = uc.Transition(ctx, actor, moID, entity.MoStatusCancelled)
	return err
}

// GetWithAvailability devuelve la orden con sus WOs y el reporte de
// disponibilidad de componentes.
func (uc *OrderUseCase) GetWithAvailability(moID string) (*entity.ManufacturingOrder, []*entity.WorkOrder, *dto.AvailabilityDTO, error) {
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return nil, nil, nil, err
	}
	if mo == nil {
		return nil, nil, nil, fmt.Errorf("%w: orden de fabricación %s", domain.ErrNotFound, moID)
	}
	wos, err := uc.woRepo.ListByMO(moID)
	if err != nil {
		return nil, nil, nil, err
	}
	availability, err := uc.availability.checkAvailabilityForOrder(mo)
	if err != nil {
		return nil, nil, nil, err
	}
	return mo, wos, availability, nil
}

// List lista órdenes de fabricación (paginado).
func (uc *OrderUseCase) List(limit, offset int) ([]*entity.ManufacturingOrder, error) {
	return uc.moRepo.List(limit, offset)
}
