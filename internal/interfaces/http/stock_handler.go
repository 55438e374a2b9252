package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/stock"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP de movimientos y stock (protegido).
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Escribe la entrada del ledger y actualiza el snapshot en una
//
//	sola transacción. Una salida que dejaría stock negativo se
//	rechaza con 409.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, type (in|out), quantity, reference_type, reference_id"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.RecordMovement(c.Context(), GetActor(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLedgerEntryResponse(entry))
}

// Adjust lleva el stock del producto a la cantidad objetivo registrando el
// delta como ajuste. Si ya está en el objetivo responde 200 sin entrada.
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.AdjustTo(c.Context(), GetActor(c), c.Params("productId"), in.Quantity)
	if err != nil {
		return mapDomainError(c, err)
	}
	if entry == nil {
		return c.JSON(fiber.Map{"message": "el stock ya está en la cantidad objetivo"})
	}
	return c.Status(fiber.StatusCreated).JSON(toLedgerEntryResponse(entry))
}

// GetStock devuelve el snapshot actual de un producto.
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	snapshot, err := h.uc.GetStock(c.Params("productId"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.StockResponse{
		ProductID: snapshot.ProductID,
		Quantity:  snapshot.Quantity,
		UpdatedAt: snapshot.UpdatedAt,
	})
}

// Reconcile compara Σ(in)−Σ(out) del ledger contra el snapshot (auditoría).
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.Params("productId"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// ListMovements lista el ledger de un producto, más recientes primero.
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	entries, err := h.uc.ListMovements(c.Params("productId"), limit, offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, *toLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

func toLedgerEntryResponse(e *entity.LedgerEntry) *dto.LedgerEntryResponse {
	return &dto.LedgerEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		MovementType:  e.MovementType,
		Quantity:      e.Quantity,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		CreatedAt:     e.CreatedAt,
	}
}
