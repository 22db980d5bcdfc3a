package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt (recebimento) entrada de mercadería que incrementa el stock del producto.
// TotalValue se calcula al registrar y no se recalcula después.
type Receipt struct {
	ID         int64
	ProductID  int64
	Quantity   int
	UnitValue  decimal.Decimal
	TotalValue decimal.Decimal
	Supplier   string // fabricante del producto al momento del registro
	Notes      string
	InvoiceRef string // clave en el storage de la nota fiscal PDF; vacío si no hay
	CreatedAt  time.Time
}

// HasInvoice indica si el recebimento tiene nota fiscal adjunta.
func (r *Receipt) HasInvoice() bool { return r.InvoiceRef != "" }

// ReceiptDetail recebimento con los datos del producto para listados.
type ReceiptDetail struct {
	Receipt
	ProductName         string
	ProductDescription  string
	ProductManufacturer string
}
