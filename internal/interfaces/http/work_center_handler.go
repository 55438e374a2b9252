package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/usecase"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

// WorkCenterHandler maneja las peticiones HTTP para WorkCenter (protegido).
type WorkCenterHandler struct {
	uc *usecase.WorkCenterUseCase
}

// NewWorkCenterHandler construye el handler.
func NewWorkCenterHandler(uc *usecase.WorkCenterUseCase) *WorkCenterHandler {
	return &WorkCenterHandler{uc: uc}
}

// Create crea un centro de trabajo.
func (h *WorkCenterHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	wc, err := h.uc.Create(GetActor(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWorkCenterResponse(wc))
}

// GetByID obtiene un centro de trabajo.
func (h *WorkCenterHandler) GetByID(c *fiber.Ctx) error {
	wc, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toWorkCenterResponse(wc))
}

// List lista centros de trabajo.
func (h *WorkCenterHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	wcs, err := h.uc.List(limit, offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.WorkCenterResponse, 0, len(wcs))
	for _, wc := range wcs {
		out = append(out, *toWorkCenterResponse(wc))
	}
	return c.JSON(out)
}

// Update actualiza un centro de trabajo.
func (h *WorkCenterHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateWorkCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	wc, err := h.uc.Update(GetActor(c), c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toWorkCenterResponse(wc))
}

// Delete elimina un centro de trabajo.
func (h *WorkCenterHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetActor(c), c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toWorkCenterResponse(wc *entity.WorkCenter) *dto.WorkCenterResponse {
	return &dto.WorkCenterResponse{
		ID:          wc.ID,
		Name:        wc.Name,
		Capacity:    wc.Capacity,
		CostPerHour: wc.CostPerHour,
	}
}
