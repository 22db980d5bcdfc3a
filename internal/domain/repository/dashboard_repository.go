package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryReceiptsResult recebimentos agregados por categoría de producto.
type CategoryReceiptsResult struct {
	Category      string
	TotalValue    decimal.Decimal
	TotalQuantity int
	ReceiptCount  int
}

// IssueAggregateResult saídas agregadas por una clave (destinatario, sector o producto).
type IssueAggregateResult struct {
	Key           string
	Detail        string // sector del destinatario cuando aplica
	TotalQuantity int
	IssueCount    int
}

// LowStockResult producto con stock por debajo del umbral.
type LowStockResult struct {
	ProductID     int64
	Name          string
	Category      string
	StockQuantity int
}

// DashboardRepository consultas read-only para el dashboard del administrador.
type DashboardRepository interface {
	// ReceiptsByCategory agrupa por categoría; NULL se reporta como "Sem categoria".
	ReceiptsByCategory(ctx context.Context) ([]CategoryReceiptsResult, error)
	IssuesByRecipient(ctx context.Context, limit int) ([]IssueAggregateResult, error)
	// IssuesBySector agrupa por sector; vacío se reporta como "Não informado".
	IssuesBySector(ctx context.Context) ([]IssueAggregateResult, error)
	IssuesByProduct(ctx context.Context, limit int) ([]IssueAggregateResult, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockResult, error)
}
