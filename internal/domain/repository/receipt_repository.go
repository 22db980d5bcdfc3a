package repository

import (
	"context"

	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
)

// ReceiptFilter filtros de listado de recebimentos.
type ReceiptFilter struct {
	ProductID int64
	Limit     int
	Offset    int
}

// ReceiptRepository puerto de persistencia para recebimentos.
type ReceiptRepository interface {
	// Create inserta el recebimento y completa ID y CreatedAt.
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id int64) (*entity.Receipt, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id int64) (*entity.Receipt, error)
	UpdateInvoiceRef(ctx context.Context, id int64, ref string) error
	List(ctx context.Context, filter ReceiptFilter) ([]*entity.ReceiptDetail, error)
}
