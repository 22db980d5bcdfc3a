package entity

import "time"

// Roles válidos para User (valores persistidos en usuarios.perfil).
const (
	RoleAdmin = "Administrador"
	RoleStock = "Estoque"
)

// ValidRole indica si role es uno de los perfiles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStock
}

// User representa un usuario del sistema.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // Administrador, Estoque
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene perfil de administrador.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
