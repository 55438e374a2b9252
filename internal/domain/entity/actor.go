package entity

// Actor capacidad de autorización que viaja explícitamente en cada operación
// del core: identidad + rol decididos una sola vez en el borde (middleware
// JWT), nunca re-consultados a mitad de operación.
type Actor struct {
	UserID string
	Role   string
}

// IsZero indica si el actor no fue establecido (petición sin autenticar).
func (a Actor) IsZero() bool { return a.UserID == "" }

// CanManage indica si el rol puede crear/mutar órdenes y BOMs.
func (a Actor) CanManage() bool {
	return a.Role == RoleAdmin || a.Role == RolePlanner
}

// CanOperate indica si el rol puede ejecutar órdenes de trabajo y movimientos.
func (a Actor) CanOperate() bool {
	return a.Role == RoleAdmin || a.Role == RolePlanner || a.Role == RoleOperator
}
