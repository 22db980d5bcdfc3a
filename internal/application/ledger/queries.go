package ledger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// ListReceipts lista recebimentos (más recientes primero).
func (s *Service) ListReceipts(ctx context.Context, filter repository.ReceiptFilter) ([]*entity.ReceiptDetail, error) {
	return s.receiptRepo.List(ctx, filter)
}

// ListIssues lista saídas con los filtros dados (más recientes primero).
func (s *Service) ListIssues(ctx context.Context, filter repository.IssueFilter) ([]*entity.IssueDetail, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: data_fim anterior a data_inicio", domain.ErrInvalidInput)
	}
	filter.Sector = strings.TrimSpace(filter.Sector)
	return s.issueRepo.List(ctx, filter)
}

// ListRecipients lista destinatários filtrando por nome o setor.
func (s *Service) ListRecipients(ctx context.Context, search string) ([]*entity.Recipient, error) {
	return s.recipientRepo.List(ctx, strings.TrimSpace(search))
}

// OpenInvoice abre la nota fiscal de un recebimento. El caller cierra el reader.
func (s *Service) OpenInvoice(ctx context.Context, receiptID int64) (io.ReadCloser, *entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, nil, err
	}
	if receipt == nil {
		return nil, nil, fmt.Errorf("%w: recebimento %d", domain.ErrNotFound, receiptID)
	}
	if !receipt.HasInvoice() {
		return nil, nil, fmt.Errorf("%w: recebimento %d sin nota fiscal", domain.ErrNotFound, receiptID)
	}
	rc, err := s.storage.Open(ctx, receipt.InvoiceRef)
	if err != nil {
		return nil, nil, err
	}
	return rc, receipt, nil
}
