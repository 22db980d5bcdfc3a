package entity

import "time"

// Product representa un artículo del almoxarifado.
// StockQuantity solo cambia vía recebimentos y saídas; la edición de producto no lo toca.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Category      string
	Manufacturer  string
	Shelf         string // prateleira
	Allocation    string // alocação
	StockQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LowStockThreshold productos con stock por debajo de este valor se consideran en falta.
const LowStockThreshold = 5

// IsLowStock indica si el producto está por debajo del umbral de stock bajo.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity < LowStockThreshold
}
