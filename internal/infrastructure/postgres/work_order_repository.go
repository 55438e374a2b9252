package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

const woColumns = `id, mo_id, operation, status, duration_planned_minutes, duration_done_minutes, started_at, work_center_id, assigned_to_id, created_at, updated_at`

func scanWO(row pgx.Row) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	var status string
	err := row.Scan(&wo.ID, &wo.MoID, &wo.Operation, &status, &wo.DurationPlannedMinutes,
		&wo.DurationDoneMinutes, &wo.StartedAt, &wo.WorkCenterID, &wo.AssignedToID,
		&wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	wo.Status = entity.WoStatus(status)
	return &wo, nil
}

const insertWOQuery = `
	INSERT INTO work_orders (` + woColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Create persiste una orden de trabajo.
func (r *WorkOrderRepo) Create(wo *entity.WorkOrder) error {
	_, err := r.q.Exec(context.Background(), insertWOQuery,
		wo.ID, wo.MoID, wo.Operation, string(wo.Status), wo.DurationPlannedMinutes,
		wo.DurationDoneMinutes, wo.StartedAt, wo.WorkCenterID, wo.AssignedToID,
		wo.CreatedAt, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// BulkCreate inserta el set completo de la explosión (dentro de la tx de la
// transición draft→confirmed).
func (r *WorkOrderRepo) BulkCreate(wos []*entity.WorkOrder) error {
	for _, wo := range wos {
		if err := r.Create(wo); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene una orden de trabajo (nil si no existe).
func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + woColumns + ` FROM work_orders WHERE id = $1`
	wo, err := scanWO(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return wo, nil
}

// GetForUpdate obtiene la orden de trabajo bloqueando la fila (SELECT FOR
// UPDATE) para serializar transiciones concurrentes sobre ella.
func (r *WorkOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + woColumns + ` FROM work_orders WHERE id = $1 FOR UPDATE`
	wo, err := scanWO(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order for update: %w", err)
	}
	return wo, nil
}

// ListByMO devuelve las órdenes de trabajo de una MO en orden de creación.
func (r *WorkOrderRepo) ListByMO(moID string) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + woColumns + ` FROM work_orders WHERE mo_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, moID)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.WorkOrder
	for rows.Next() {
		wo, err := scanWO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		out = append(out, wo)
	}
	return out, rows.Err()
}

// Update persiste estado y duraciones de la orden de trabajo.
func (r *WorkOrderRepo) Update(wo *entity.WorkOrder) error {
	query := `
		UPDATE work_orders
		SET operation = $2, status = $3, duration_planned_minutes = $4,
		    duration_done_minutes = $5, started_at = $6, work_center_id = $7,
		    assigned_to_id = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		wo.ID, wo.Operation, string(wo.Status), wo.DurationPlannedMinutes,
		wo.DurationDoneMinutes, wo.StartedAt, wo.WorkCenterID, wo.AssignedToID, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByMO elimina en cascada las órdenes de trabajo de una MO (borrado de
// MO en draft).
func (r *WorkOrderRepo) DeleteByMO(moID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM work_orders WHERE mo_id = $1`, moID); err != nil {
		return fmt.Errorf("delete work orders by mo: %w", err)
	}
	return nil
}

// CountActiveByWorkCenter cuenta órdenes no completadas en un centro de trabajo.
func (r *WorkOrderRepo) CountActiveByWorkCenter(workCenterID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM work_orders
		WHERE work_center_id = $1 AND status <> $2`
	var count int
	err := r.q.QueryRow(context.Background(), query, workCenterID, string(entity.WoStatusCompleted)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active work orders by work center: %w", err)
	}
	return count, nil
}
