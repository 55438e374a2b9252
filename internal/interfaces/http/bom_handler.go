package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/bom"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

// BOMHandler maneja las peticiones HTTP de listas de materiales (protegido).
// El set de líneas siempre viaja completo: crear y reemplazar reciben la
// lista entera, no hay patch de líneas individuales.
type BOMHandler struct {
	uc *bom.UseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *bom.UseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar la BOM de un producto
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBOMRequest  true  "product_id y set completo de componentes"
// @Success      201   {array}   dto.BOMEntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/boms [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entries, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBOMResponse(entries))
}

// Replace godoc
// @Summary      Reemplazar atómicamente el set completo de la BOM
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        body       body  dto.ReplaceBOMRequest  true  "set completo de componentes"
// @Success      200        {array}   dto.BOMEntryResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/boms/{productId} [put]
func (h *BOMHandler) Replace(c *fiber.Ctx) error {
	var in dto.ReplaceBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entries, err := h.uc.Replace(c.Context(), GetActor(c), c.Params("productId"), in.Components)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toBOMResponse(entries))
}

// Get devuelve las líneas de la BOM de un producto.
func (h *BOMHandler) Get(c *fiber.Ctx) error {
	entries, err := h.uc.Get(c.Params("productId"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toBOMResponse(entries))
}

// Delete elimina la BOM completa (409 si hay órdenes activas).
func (h *BOMHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("productId")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckUsage informa si la BOM está en uso por órdenes activas.
func (h *BOMHandler) CheckUsage(c *fiber.Ctx) error {
	out, err := h.uc.CheckUsage(c.Params("productId"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

func toBOMResponse(entries []*entity.BOMEntry) []dto.BOMEntryResponse {
	out := make([]dto.BOMEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.BOMEntryResponse{
			ID:                       e.ID,
			ComponentID:              e.ComponentID,
			QuantityPerUnit:          e.QuantityPerUnit,
			Operation:                e.Operation,
			OperationDurationMinutes: e.OperationDurationMinutes,
		})
	}
	return out
}
