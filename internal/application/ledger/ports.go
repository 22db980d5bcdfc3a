package ledger

import (
	"context"
	"io"

	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el registro del movimiento y el ajuste de stock se apliquen juntos o no se apliquen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		receiptRepo repository.ReceiptRepository,
		issueRepo repository.IssueRepository,
	) error) error
}

// InvoiceStorage almacenamiento durable de las notas fiscales.
// Save devuelve una referencia opaca que se guarda en recebimentos.nota_fiscal_pdf.
type InvoiceStorage interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}
