package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username string `json:"usuario" validate:"required,max=100"`
	Password string `json:"senha" validate:"required,min=6"`
	Role     string `json:"perfil" validate:"required,oneof=Administrador Estoque"`
	Active   *bool  `json:"ativo"`
}

// UpdateUserRequest actualización parcial; solo se aplican los campos presentes.
type UpdateUserRequest struct {
	Username *string `json:"usuario" validate:"omitempty,max=100"`
	Password *string `json:"senha" validate:"omitempty,min=6"`
	Role     *string `json:"perfil" validate:"omitempty,oneof=Administrador Estoque"`
	Active   *bool   `json:"ativo"`
}

// Empty indica que no vino ningún campo para actualizar.
func (r UpdateUserRequest) Empty() bool {
	return r.Username == nil && r.Password == nil && r.Role == nil && r.Active == nil
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"usuario"`
	Role      string    `json:"perfil"`
	Active    bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"usuario" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

// LoginResponse salida con token JWT; el mismo token se envía en la cookie de sesión.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SessionResponse salida de GET /api/auth/me.
type SessionResponse struct {
	UserID    int64     `json:"id"`
	Username  string    `json:"usuario"`
	Role      string    `json:"perfil"`
	ExpiresAt time.Time `json:"expires_at"`
}
