package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RolePlanner  = "planner"
	RoleOperator = "operator"
)

// User usuario del sistema (creador o asignado de órdenes).
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, planner, operator
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
