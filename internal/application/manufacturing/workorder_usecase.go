package manufacturing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/ports"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
	"github.com/amoreX/nmitoddo-back-sub000/pkg/logger"
)

// WorkOrderUseCase máquina de estados de la orden de trabajo
// (to_do → started ⇄ paused → completed) y creación manual de WOs.
type WorkOrderUseCase struct {
	txRunner ports.TxRunner
	moRepo   repository.ManufacturingOrderRepository
	woRepo   repository.WorkOrderRepository
	log      *logger.Logger

	defaultDurationMinutes int
}

// NewWorkOrderUseCase construye el caso de uso.
func NewWorkOrderUseCase(
	txRunner ports.TxRunner,
	moRepo repository.ManufacturingOrderRepository,
	woRepo repository.WorkOrderRepository,
	log *logger.Logger,
	defaultDurationMinutes int,
) *WorkOrderUseCase {
	if defaultDurationMinutes <= 0 {
		defaultDurationMinutes = 60
	}
	return &WorkOrderUseCase{
		txRunner:               txRunner,
		moRepo:                 moRepo,
		woRepo:                 woRepo,
		log:                    log,
		defaultDurationMinutes: defaultDurationMinutes,
	}
}

// CreateManual crea una WO ad-hoc fuera de la explosión de BOM, sobre una MO
// que no esté done ni cancelled.
func (uc *WorkOrderUseCase) CreateManual(ctx context.Context, actor entity.Actor, moID string, in dto.CreateWORequest) (*entity.WorkOrder, error) {
	if !actor.CanManage() {
		return nil, domain.ErrForbidden
	}
	if in.Operation == "" {
		return nil, fmt.Errorf("%w: la operación es obligatoria", domain.ErrInvalidInput)
	}
	mo, err := uc.moRepo.GetByID(moID)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, fmt.Errorf("%w: orden de fabricación %s", domain.ErrNotFound, moID)
	}
	if mo.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: la orden está %s, no admite nuevas órdenes de trabajo", domain.ErrInvalidState, mo.Status)
	}

	duration := in.DurationPlannedMinutes
	if duration <= 0 {
		duration = uc.defaultDurationMinutes
	}
	now := time.Now()
	wo := &entity.WorkOrder{
		ID:                     uuid.New().String(),
		MoID:                   moID,
		Operation:              in.Operation,
		Status:                 entity.WoStatusToDo,
		DurationPlannedMinutes: duration,
		WorkCenterID:           in.WorkCenterID,
		AssignedToID:           in.AssignedToID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := uc.woRepo.Create(wo); err != nil {
		return nil, err
	}
	return wo, nil
}

// Start arranca una WO (to_do o paused → started), estampando StartedAt.
func (uc *WorkOrderUseCase) Start(ctx context.Context, actor entity.Actor, woID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, actor, woID, entity.WoStatusStarted)
}

// Pause pausa una WO en marcha acumulando los minutos transcurridos.
func (uc *WorkOrderUseCase) Pause(ctx context.Context, actor entity.Actor, woID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, actor, woID, entity.WoStatusPaused)
}

// Complete termina una WO. Si con ella se completa la última WO pendiente de
// una MO en proceso, la MO pasa automáticamente a to_close en la misma
// transacción; el cierre definitivo (to_close → done) sigue siendo del caller.
func (uc *WorkOrderUseCase) Complete(ctx context.Context, actor entity.Actor, woID string) (*entity.WorkOrder, error) {
	return uc.transition(ctx, actor, woID, entity.WoStatusCompleted)
}

// transition relee la WO con bloqueo de fila dentro de la transacción y
// verifica ahí la tabla: dos llamadas concurrentes sobre la misma WO se
// serializan y la segunda ve el estado ya avanzado (ErrIllegalTransition), de
// modo que los minutos se acumulan una sola vez.
func (uc *WorkOrderUseCase) transition(ctx context.Context, actor entity.Actor, woID string, target entity.WoStatus) (*entity.WorkOrder, error) {
	if !actor.CanOperate() {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	var wo *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(r ports.TxRepos) error {
		var err error
		wo, err = r.WorkOrders.GetForUpdate(woID)
		if err != nil {
			return err
		}
		if wo == nil {
			return fmt.Errorf("%w: orden de trabajo %s", domain.ErrNotFound, woID)
		}
		if !wo.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s → %s", domain.ErrIllegalTransition, wo.Status, target)
		}
		switch target {
		case entity.WoStatusStarted:
			wo.StartedAt = &now
		case entity.WoStatusPaused, entity.WoStatusCompleted:
			if wo.StartedAt != nil {
				wo.DurationDoneMinutes += int(now.Sub(*wo.StartedAt).Minutes())
				wo.StartedAt = nil
			}
		}
		wo.Status = target
		wo.UpdatedAt = now
		if err := r.WorkOrders.Update(wo); err != nil {
			return err
		}

		if target != entity.WoStatusCompleted {
			return nil
		}
		// Última WO completada: la MO en proceso pasa a to_close. El bloqueo
		// de la fila de la MO serializa los cierres de hermanas: el listado de
		// siblings de abajo nunca corre sobre una lectura obsoleta.
		mo, err := r.Orders.GetForUpdate(wo.MoID)
		if err != nil {
			return err
		}
		if mo == nil || mo.Status != entity.MoStatusInProgress {
			return nil
		}
		siblings, err := r.WorkOrders.ListByMO(wo.MoID)
		if err != nil {
			return err
		}
		for _, s := range siblings {
			if s.Status != entity.WoStatusCompleted {
				return nil
			}
		}
		mo.Status = entity.MoStatusToClose
		mo.UpdatedAt = now
		if err := r.Orders.Update(mo); err != nil {
			return err
		}
		uc.log.Info().Str("mo_id", mo.ID).Msg("todas las órdenes de trabajo completadas, orden por cerrar")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}
