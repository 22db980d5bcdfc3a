package dto

import "time"

// CreateIssueRequest entrada de POST /api/saidas.
type CreateIssueRequest struct {
	ProductID   int64  `json:"produto_id" validate:"required,gt=0"`
	Quantity    int    `json:"quantidade" validate:"required,gt=0"`
	RecipientID int64  `json:"destinatario_id" validate:"required,gt=0"`
	Notes       string `json:"observacoes" validate:"max=2000"`
}

// IssueListQuery filtros de GET /api/saidas. Fechas en formato YYYY-MM-DD.
type IssueListQuery struct {
	ProductID   int64  `query:"produto_id" validate:"omitempty,gt=0"`
	RecipientID int64  `query:"destinatario_id" validate:"omitempty,gt=0"`
	Sector      string `query:"setor"`
	From        string `query:"data_inicio" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"data_fim" validate:"omitempty,datetime=2006-01-02"`
}

// IssueCreatedResponse salida de POST /api/saidas.
type IssueCreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// IssueResponse saída en listados.
type IssueResponse struct {
	ID                 int64     `json:"id"`
	ProductID          int64     `json:"produto_id"`
	ProductName        string    `json:"produto_nome"`
	ProductDescription string    `json:"produto_descricao,omitempty"`
	Quantity           int       `json:"quantidade"`
	RecipientID        int64     `json:"destinatario_id"`
	RecipientName      string    `json:"destinatario_nome"`
	RecipientSector    string    `json:"destinatario_setor"`
	Notes              string    `json:"observacoes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
