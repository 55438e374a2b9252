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

var _ repository.WorkCenterRepository = (*WorkCenterRepo)(nil)

// WorkCenterRepo implementación sobre PostgreSQL (usable con pool o tx).
type WorkCenterRepo struct {
	q Querier
}

// NewWorkCenterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkCenterRepository(q Querier) *WorkCenterRepo {
	return &WorkCenterRepo{q: q}
}

// Create persiste un centro de trabajo.
func (r *WorkCenterRepo) Create(wc *entity.WorkCenter) error {
	query := `
		INSERT INTO work_centers (id, name, capacity, cost_per_hour, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		wc.ID, wc.Name, wc.Capacity, wc.CostPerHour, wc.CreatedAt, wc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert work center: %w", err)
	}
	return nil
}

// GetByID obtiene un centro de trabajo (nil si no existe).
func (r *WorkCenterRepo) GetByID(id string) (*entity.WorkCenter, error) {
	query := `
		SELECT id, name, capacity, cost_per_hour, created_at, updated_at
		FROM work_centers WHERE id = $1`
	var wc entity.WorkCenter
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&wc.ID, &wc.Name, &wc.Capacity, &wc.CostPerHour, &wc.CreatedAt, &wc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work center: %w", err)
	}
	return &wc, nil
}

// List lista centros de trabajo ordenados por nombre.
func (r *WorkCenterRepo) List(limit, offset int) ([]*entity.WorkCenter, error) {
	query := `
		SELECT id, name, capacity, cost_per_hour, created_at, updated_at
		FROM work_centers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list work centers: %w", err)
	}
	defer rows.Close()

	var out []*entity.WorkCenter
	for rows.Next() {
		var wc entity.WorkCenter
		if err := rows.Scan(&wc.ID, &wc.Name, &wc.Capacity, &wc.CostPerHour, &wc.CreatedAt, &wc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan work center: %w", err)
		}
		out = append(out, &wc)
	}
	return out, rows.Err()
}

// Update actualiza nombre, capacidad y costo.
func (r *WorkCenterRepo) Update(wc *entity.WorkCenter) error {
	query := `
		UPDATE work_centers
		SET name = $2, capacity = $3, cost_per_hour = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		wc.ID, wc.Name, wc.Capacity, wc.CostPerHour, wc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work center: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un centro de trabajo.
func (r *WorkCenterRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM work_centers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work center: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
