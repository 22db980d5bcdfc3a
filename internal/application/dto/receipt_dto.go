package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReceiptForm campos de texto del multipart de POST /api/recebimentos.
// La nota fiscal llega en el campo de archivo nota_fiscal_pdf.
type CreateReceiptForm struct {
	ProductID int64           `form:"produto_id" validate:"required,gt=0"`
	Quantity  int             `form:"quantidade" validate:"required,gt=0"`
	UnitValue decimal.Decimal `form:"valor_unitario" validate:"gt=0"`
	Notes     string          `form:"observacoes" validate:"max=2000"`
}

// ReceiptListQuery filtros de GET /api/recebimentos.
type ReceiptListQuery struct {
	ProductID int64 `query:"produto_id" validate:"omitempty,gt=0"`
	PageRequest
}

// ReceiptCreatedResponse salida de POST /api/recebimentos.
type ReceiptCreatedResponse struct {
	ID         int64           `json:"id"`
	TotalValue decimal.Decimal `json:"valor_total"`
	Supplier   string          `json:"fornecedor"`
	InvoiceRef string          `json:"nota_fiscal_pdf,omitempty"`
	Message    string          `json:"message"`
}

// InvoiceReplacedResponse salida de PUT /api/recebimentos/:id.
type InvoiceReplacedResponse struct {
	ID         int64  `json:"id"`
	InvoiceRef string `json:"nota_fiscal_pdf"`
	Message    string `json:"message"`
}

// ReceiptResponse recebimento en listados.
type ReceiptResponse struct {
	ID                  int64           `json:"id"`
	ProductID           int64           `json:"produto_id"`
	ProductName         string          `json:"produto_nome"`
	ProductDescription  string          `json:"produto_descricao,omitempty"`
	ProductManufacturer string          `json:"produto_fabricante,omitempty"`
	Quantity            int             `json:"quantidade"`
	UnitValue           decimal.Decimal `json:"valor_unitario"`
	TotalValue          decimal.Decimal `json:"valor_total"`
	Supplier            string          `json:"fornecedor"`
	Notes               string          `json:"observacoes,omitempty"`
	InvoiceRef          string          `json:"nota_fiscal_pdf,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}
