package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/manufacturing"
)

// WorkOrderHandler maneja las peticiones HTTP de órdenes de trabajo
// (protegido): start, pause y complete desde el piso de planta.
type WorkOrderHandler struct {
	uc *manufacturing.WorkOrderUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *manufacturing.WorkOrderUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// Start arranca una orden de trabajo (to_do o paused → started).
func (h *WorkOrderHandler) Start(c *fiber.Ctx) error {
	wo, err := h.uc.Start(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toWOResponse(wo))
}

// Pause pausa una orden de trabajo acumulando los minutos transcurridos.
func (h *WorkOrderHandler) Pause(c *fiber.Ctx) error {
	wo, err := h.uc.Pause(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toWOResponse(wo))
}

// Complete termina una orden de trabajo. Si era la última pendiente de una
// orden en proceso, la orden de fabricación queda en to_close.
func (h *WorkOrderHandler) Complete(c *fiber.Ctx) error {
	wo, err := h.uc.Complete(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toWOResponse(wo))
}
