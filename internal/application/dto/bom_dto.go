package dto

import "github.com/shopspring/decimal"

// BOMComponentInput una línea del set de componentes en Create/Replace.
// El caller siempre reenvía la lista completa deseada: no hay patch parcial
// de líneas individuales.
type BOMComponentInput struct {
	ComponentID              string          `json:"component_id"`
	QuantityPerUnit          decimal.Decimal `json:"quantity_per_unit"`
	Operation                string          `json:"operation,omitempty"`
	OperationDurationMinutes int             `json:"operation_duration_minutes,omitempty"`
}

// CreateBOMRequest body para POST /api/boms.
type CreateBOMRequest struct {
	ProductID  string              `json:"product_id"`
	Components []BOMComponentInput `json:"components"`
}

// ReplaceBOMRequest body para PUT /api/boms/:productId (set completo).
type ReplaceBOMRequest struct {
	Components []BOMComponentInput `json:"components"`
}

// BOMEntryResponse una línea de la BOM en respuestas.
type BOMEntryResponse struct {
	ID                       string          `json:"id"`
	ComponentID              string          `json:"component_id"`
	QuantityPerUnit          decimal.Decimal `json:"quantity_per_unit"`
	Operation                string          `json:"operation,omitempty"`
	OperationDurationMinutes int             `json:"operation_duration_minutes,omitempty"`
}

// BOMUsageResponse resultado de GET /api/boms/:productId/usage.
type BOMUsageResponse struct {
	ProductID string `json:"product_id"`
	InUse     bool   `json:"in_use"`
	ActiveMOs int    `json:"active_mos"`
}
