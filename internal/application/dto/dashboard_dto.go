package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	ReceiptsByCategory []CategoryReceiptsDTO `json:"recebimentos_por_categoria"`
	IssuesByRecipient  []IssueAggregateDTO   `json:"saidas_por_destinatario"` // top 10
	IssuesBySector     []IssueAggregateDTO   `json:"saidas_por_setor"`
	IssuesByProduct    []IssueAggregateDTO   `json:"saidas_por_produto"` // top 10
	LowStock           []LowStockDTO         `json:"estoque_baixo"`
}

// CategoryReceiptsDTO totales de recebimentos de una categoría.
type CategoryReceiptsDTO struct {
	Category      string          `json:"categoria"`
	TotalValue    decimal.Decimal `json:"valor_total"`
	TotalQuantity int             `json:"quantidade_total"`
	ReceiptCount  int             `json:"total_recebimentos"`
}

// IssueAggregateDTO totales de saídas agrupadas por destinatario, setor o producto.
type IssueAggregateDTO struct {
	Label         string `json:"nome"`
	Detail        string `json:"setor,omitempty"`
	TotalQuantity int    `json:"quantidade_total"`
	IssueCount    int    `json:"total_saidas"`
}

// LowStockDTO producto con stock bajo.
type LowStockDTO struct {
	ProductID     int64  `json:"id"`
	Name          string `json:"nome"`
	Category      string `json:"categoria,omitempty"`
	StockQuantity int    `json:"quantidade_estoque"`
}
