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

var _ repository.ManufacturingOrderRepository = (*ManufacturingOrderRepo)(nil)

// ManufacturingOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type ManufacturingOrderRepo struct {
	q Querier
}

// NewManufacturingOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewManufacturingOrderRepository(q Querier) *ManufacturingOrderRepo {
	return &ManufacturingOrderRepo{q: q}
}

const moColumns = `id, product_id, quantity, status, schedule_start_date, deadline, created_by_id, assigned_to_id, created_at, updated_at`

func scanMO(row pgx.Row) (*entity.ManufacturingOrder, error) {
	var mo entity.ManufacturingOrder
	var status string
	err := row.Scan(&mo.ID, &mo.ProductID, &mo.Quantity, &status, &mo.ScheduleStartDate,
		&mo.Deadline, &mo.CreatedByID, &mo.AssignedToID, &mo.CreatedAt, &mo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	mo.Status = entity.MoStatus(status)
	return &mo, nil
}

// Create persiste una nueva orden de fabricación.
func (r *ManufacturingOrderRepo) Create(mo *entity.ManufacturingOrder) error {
	query := `
		INSERT INTO manufacturing_orders (` + moColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		mo.ID, mo.ProductID, mo.Quantity, string(mo.Status), mo.ScheduleStartDate,
		mo.Deadline, mo.CreatedByID, mo.AssignedToID, mo.CreatedAt, mo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert manufacturing order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID (nil si no existe).
func (r *ManufacturingOrderRepo) GetByID(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + moColumns + ` FROM manufacturing_orders WHERE id = $1`
	mo, err := scanMO(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturing order: %w", err)
	}
	return mo, nil
}

// GetForUpdate obtiene la orden bloqueando la fila (SELECT FOR UPDATE): dos
// transiciones concurrentes de la misma orden se serializan aquí y la segunda
// relee el estado ya avanzado por la primera.
func (r *ManufacturingOrderRepo) GetForUpdate(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + moColumns + ` FROM manufacturing_orders WHERE id = $1 FOR UPDATE`
	mo, err := scanMO(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturing order for update: %w", err)
	}
	return mo, nil
}

// List lista órdenes, más recientes primero.
func (r *ManufacturingOrderRepo) List(limit, offset int) ([]*entity.ManufacturingOrder, error) {
	query := `SELECT ` + moColumns + ` FROM manufacturing_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list manufacturing orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.ManufacturingOrder
	for rows.Next() {
		mo, err := scanMO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manufacturing order: %w", err)
		}
		out = append(out, mo)
	}
	return out, rows.Err()
}

// Update persiste estado, fechas y asignación de la orden.
func (r *ManufacturingOrderRepo) Update(mo *entity.ManufacturingOrder) error {
	query := `
		UPDATE manufacturing_orders
		SET quantity = $2, status = $3, schedule_start_date = $4, deadline = $5,
		    assigned_to_id = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		mo.ID, mo.Quantity, string(mo.Status), mo.ScheduleStartDate, mo.Deadline,
		mo.AssignedToID, mo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update manufacturing order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una orden (solo draft; el caso de uso lo garantiza).
func (r *ManufacturingOrderRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM manufacturing_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manufacturing order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountActiveByProduct cuenta órdenes del producto en estado no terminal.
func (r *ManufacturingOrderRepo) CountActiveByProduct(productID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM manufacturing_orders
		WHERE product_id = $1 AND status = ANY($2)`
	var count int
	err := r.q.QueryRow(context.Background(), query, productID, activeStatuses()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active orders by product: %w", err)
	}
	return count, nil
}

// CountActiveByAssignee cuenta órdenes activas asignadas a un usuario.
func (r *ManufacturingOrderRepo) CountActiveByAssignee(userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM manufacturing_orders
		WHERE assigned_to_id = $1 AND status = ANY($2)`
	var count int
	err := r.q.QueryRow(context.Background(), query, userID, activeStatuses()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active orders by assignee: %w", err)
	}
	return count, nil
}

func activeStatuses() []string {
	statuses := entity.ActiveMoStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
