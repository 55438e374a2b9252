package dto

import "github.com/shopspring/decimal"

// CreateWorkCenterRequest body para POST /api/work-centers.
type CreateWorkCenterRequest struct {
	Name        string          `json:"name"`
	Capacity    int             `json:"capacity"`
	CostPerHour decimal.Decimal `json:"cost_per_hour,omitempty"`
}

// UpdateWorkCenterRequest body para PUT /api/work-centers/:id.
type UpdateWorkCenterRequest struct {
	Name        *string          `json:"name,omitempty"`
	Capacity    *int             `json:"capacity,omitempty"`
	CostPerHour *decimal.Decimal `json:"cost_per_hour,omitempty"`
}

// WorkCenterResponse centro de trabajo en respuestas.
type WorkCenterResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Capacity    int             `json:"capacity"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
}
