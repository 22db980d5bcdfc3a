// Package ledger contiene las operaciones del libro de stock: recebimentos, saídas,
// destinatários y notas fiscales. Cada movimiento inserta su fila y ajusta
// produtos.quantidade_estoque dentro de la misma transacción.
package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// Service casos de uso del libro de stock.
type Service struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	receiptRepo   repository.ReceiptRepository
	issueRepo     repository.IssueRepository
	recipientRepo repository.RecipientRepository
	storage       InvoiceStorage
	now           func() time.Time
}

// NewService construye el servicio con sus dependencias.
func NewService(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	receiptRepo repository.ReceiptRepository,
	issueRepo repository.IssueRepository,
	recipientRepo repository.RecipientRepository,
	storage InvoiceStorage,
) *Service {
	return &Service{
		txRunner:      txRunner,
		productRepo:   productRepo,
		receiptRepo:   receiptRepo,
		issueRepo:     issueRepo,
		recipientRepo: recipientRepo,
		storage:       storage,
		now:           time.Now,
	}
}

// discardInvoice borra un archivo del storage sin propagar el error (solo se registra).
func (s *Service) discardInvoice(ctx context.Context, ref, reason string) {
	if ref == "" {
		return
	}
	if err := s.storage.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str("ref", ref).Str("reason", reason).Msg("no se pudo eliminar la nota fiscal")
	}
}
