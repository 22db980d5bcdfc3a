package dto

import "time"

// EnsureRecipientRequest entrada de POST /api/destinatarios.
type EnsureRecipientRequest struct {
	Name   string `json:"nome" validate:"required,max=255"`
	Sector string `json:"setor" validate:"required,max=255"`
}

// RecipientResponse salida de un destinatário.
type RecipientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Sector    string    `json:"setor"`
	CreatedAt time.Time `json:"created_at"`
}
