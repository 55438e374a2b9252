package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los casos de uso los envuelven
// con fmt.Errorf("%w: detalle...") para que el mensaje diga qué invariante se
// violó y la capa HTTP los mapee a códigos de estado con errors.Is.
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrComponentNotFound    = errors.New("componente no encontrado")
	ErrAlreadyExists        = errors.New("el recurso ya existe")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrIllegalTransition    = errors.New("transición de estado no permitida")
	ErrInvalidState         = errors.New("operación no válida en el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInUse                = errors.New("el recurso está en uso")
	ErrIncompleteWorkOrders = errors.New("órdenes de trabajo incompletas")
	ErrValidationFailed     = errors.New("la validación encontró errores")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
)
