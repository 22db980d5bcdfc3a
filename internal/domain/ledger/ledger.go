// Package ledger contiene la aritmética pura del libro de stock (sin I/O).
package ledger

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SupplierNotInformed valor persistido cuando el producto no tiene fabricante.
const SupplierNotInformed = "Não informado"

// MaxQuantity límite de las columnas INTEGER (quantidade y quantidade_estoque).
const MaxQuantity = math.MaxInt32

// Límites de las columnas NUMERIC(10,2) y NUMERIC(12,2).
var (
	MaxUnitValue  = decimal.RequireFromString("99999999.99")
	MaxTotalValue = decimal.RequireFromString("9999999999.99")
)

// RoundMoney redondea a 2 decimales (precisión de las columnas de valor).
func RoundMoney(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// ReceiptTotal = quantity × round2(unitValue), exacto a 2 decimales.
func ReceiptTotal(quantity int, unitValue decimal.Decimal) decimal.Decimal {
	return RoundMoney(unitValue).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// SupplierFor devuelve el fabricante recortado o SupplierNotInformed si está vacío.
func SupplierFor(manufacturer string) string {
	if s := strings.TrimSpace(manufacturer); s != "" {
		return s
	}
	return SupplierNotInformed
}

// CanIssue indica si hay stock suficiente para retirar quantity.
func CanIssue(stock, quantity int) bool {
	return quantity > 0 && quantity <= stock
}

// FitsStock indica si stock + quantity sigue dentro de MaxQuantity.
func FitsStock(stock, quantity int) bool {
	return quantity <= MaxQuantity-stock
}
