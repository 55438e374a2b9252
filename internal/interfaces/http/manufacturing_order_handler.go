package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/manufacturing"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/usecase"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
	"github.com/amoreX/nmitoddo-back-sub000/internal/infrastructure/pdf"
)

// ManufacturingOrderHandler maneja las peticiones HTTP de órdenes de
// fabricación (protegido): ciclo de vida, validación, disponibilidad,
// órdenes de trabajo manuales y reporte PDF.
type ManufacturingOrderHandler struct {
	orderUC      *manufacturing.OrderUseCase
	woUC         *manufacturing.WorkOrderUseCase
	availability *manufacturing.AvailabilityUseCase
	productUC    *usecase.ProductUseCase
	report       *pdf.MarotoOrderReport
}

// NewManufacturingOrderHandler construye el handler.
func NewManufacturingOrderHandler(
	orderUC *manufacturing.OrderUseCase,
	woUC *manufacturing.WorkOrderUseCase,
	availability *manufacturing.AvailabilityUseCase,
	productUC *usecase.ProductUseCase,
	report *pdf.MarotoOrderReport,
) *ManufacturingOrderHandler {
	return &ManufacturingOrderHandler{
		orderUC:      orderUC,
		woUC:         woUC,
		availability: availability,
		productUC:    productUC,
		report:       report,
	}
}

// Create godoc
// @Summary      Crear orden de fabricación (draft)
// @Description  Si no llega product_id se crea un producto placeholder en la
//
//	misma transacción: la orden puede existir antes que el producto.
//
// @Tags         manufacturing-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMORequest  true  "product_id o product_seed, quantity (default 1), deadline, assigned_to_id"
// @Success      201   {object}  dto.MOResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders [post]
func (h *ManufacturingOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mo, err := h.orderUC.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMOResponse(mo, nil, nil))
}

// List lista órdenes de fabricación.
func (h *ManufacturingOrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	mos, err := h.orderUC.List(limit, offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.MOResponse, 0, len(mos))
	for _, mo := range mos {
		out = append(out, *toMOResponse(mo, nil, nil))
	}
	return c.JSON(out)
}

// GetByID devuelve la orden con sus órdenes de trabajo y el reporte de
// disponibilidad de componentes.
func (h *ManufacturingOrderHandler) GetByID(c *fiber.Ctx) error {
	mo, wos, availability, err := h.orderUC.GetWithAvailability(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toMOResponse(mo, wos, availability))
}

// Transition godoc
// @Summary      Transicionar la orden de fabricación
// @Description  Aplica la transición si la tabla de estados la permite. Los
//
//	efectos (explosión de BOM al confirmar, consumo y recepción de
//	stock al cerrar) se aplican en la misma transacción que el
//	cambio de estado.
//
// @Tags         manufacturing-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.TransitionMORequest  true  "estado destino"
// @Success      200   {object}  dto.MOResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/transition [post]
func (h *ManufacturingOrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionMORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mo, err := h.orderUC.Transition(c.Context(), GetActor(c), c.Params("id"), entity.MoStatus(in.Status))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toMOResponse(mo, nil, nil))
}

// Delete elimina la orden si está en draft; si no, la cancela (soft).
func (h *ManufacturingOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.orderUC.DeleteOrCancel(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Validate corre el checklist previo a confirmar (errores y advertencias).
func (h *ManufacturingOrderHandler) Validate(c *fiber.Ctx) error {
	out, err := h.availability.Validate(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// CheckAvailability devuelve requerido-vs-disponible por componente de la BOM.
func (h *ManufacturingOrderHandler) CheckAvailability(c *fiber.Ctx) error {
	out, err := h.availability.CheckAvailability(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(out)
}

// CreateWorkOrder crea una orden de trabajo manual sobre la MO.
func (h *ManufacturingOrderHandler) CreateWorkOrder(c *fiber.Ctx) error {
	var in dto.CreateWORequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	wo, err := h.woUC.CreateManual(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWOResponse(wo))
}

// Report genera la orden de producción en PDF.
func (h *ManufacturingOrderHandler) Report(c *fiber.Ctx) error {
	mo, wos, availability, err := h.orderUC.GetWithAvailability(c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	product, err := h.productUC.GetByID(mo.ProductID)
	if err != nil {
		return mapDomainError(c, err)
	}
	doc, err := h.report.Generate(mo, product, wos, availability)
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orden-`+mo.ID+`.pdf"`)
	return c.Send(doc)
}

func toMOResponse(mo *entity.ManufacturingOrder, wos []*entity.WorkOrder, availability *dto.AvailabilityDTO) *dto.MOResponse {
	out := &dto.MOResponse{
		ID:                mo.ID,
		ProductID:         mo.ProductID,
		Quantity:          mo.Quantity,
		Status:            string(mo.Status),
		ScheduleStartDate: mo.ScheduleStartDate,
		Deadline:          mo.Deadline,
		CreatedByID:       mo.CreatedByID,
		AssignedToID:      mo.AssignedToID,
		CreatedAt:         mo.CreatedAt,
		UpdatedAt:         mo.UpdatedAt,
		Availability:      availability,
	}
	for _, wo := range wos {
		out.WorkOrders = append(out.WorkOrders, *toWOResponse(wo))
	}
	return out
}

func toWOResponse(wo *entity.WorkOrder) *dto.WOResponse {
	return &dto.WOResponse{
		ID:                     wo.ID,
		MoID:                   wo.MoID,
		Operation:              wo.Operation,
		Status:                 string(wo.Status),
		DurationPlannedMinutes: wo.DurationPlannedMinutes,
		DurationDoneMinutes:    wo.DurationDoneMinutes,
		StartedAt:              wo.StartedAt,
		WorkCenterID:           wo.WorkCenterID,
		AssignedToID:           wo.AssignedToID,
	}
}
