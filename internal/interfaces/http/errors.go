package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain"
)

// mapDomainError traduce la taxonomía de errores de dominio a códigos HTTP.
// Los casos de uso envuelven los centinelas con fmt.Errorf("%w: ..."), así que
// el mapeo va por errors.Is y el mensaje conserva el detalle del invariante.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err)
	case errors.Is(err, domain.ErrIllegalTransition):
		return respond(c, fiber.StatusConflict, "ILLEGAL_TRANSITION", err)
	case errors.Is(err, domain.ErrInvalidState):
		return respond(c, fiber.StatusConflict, "INVALID_STATE", err)
	case errors.Is(err, domain.ErrIncompleteWorkOrders):
		return respond(c, fiber.StatusConflict, "INCOMPLETE_WORK_ORDERS", err)
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err)
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrEmailAlreadyExists):
		return respond(c, fiber.StatusConflict, "ALREADY_EXISTS", err)
	case errors.Is(err, domain.ErrInUse):
		return respond(c, fiber.StatusConflict, "IN_USE", err)
	case errors.Is(err, domain.ErrComponentNotFound):
		return respond(c, fiber.StatusNotFound, "COMPONENT_NOT_FOUND", err)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrValidationFailed):
		return respond(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err)
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, "FORBIDDEN", err)
	default:
		return respond(c, fiber.StatusInternalServerError, "INTERNAL", err)
	}
}

func respond(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
