package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/stock/movements.
type RecordMovementRequest struct {
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"` // in | out
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type"` // purchase, MO, adjustment, sales
	ReferenceID   *string         `json:"reference_id,omitempty"`
}

// AdjustStockRequest body para POST /api/stock/:productId/adjust.
// Lleva la cantidad objetivo; el caso de uso registra el movimiento delta.
type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// StockResponse snapshot actual de un producto.
type StockResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ReconcileResponse resultado de la reconciliación ledger vs snapshot.
type ReconcileResponse struct {
	ProductID  string          `json:"product_id"`
	Calculated decimal.Decimal `json:"calculated"` // Σ(in) − Σ(out) del ledger
	Actual     decimal.Decimal `json:"actual"`     // cantidad del snapshot
	Consistent bool            `json:"consistent"`
}

// LedgerEntryResponse una entrada del ledger en listados.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	MovementType  string          `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
