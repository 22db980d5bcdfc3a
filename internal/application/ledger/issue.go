package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/ledger"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// IssueInput entrada para registrar una saída.
type IssueInput struct {
	ProductID   int64
	Quantity    int
	RecipientID int64
	Notes       string
}

// IssueResult datos de la saída registrada.
type IssueResult struct {
	ID int64
}

func (in IssueInput) validate() error {
	if in.ProductID <= 0 {
		return fmt.Errorf("%w: produto_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantidade debe ser un entero positivo", domain.ErrInvalidInput)
	}
	if in.Quantity > ledger.MaxQuantity {
		return fmt.Errorf("%w: quantidade excede el máximo permitido (%d)", domain.ErrInvalidInput, ledger.MaxQuantity)
	}
	if in.RecipientID <= 0 {
		return fmt.Errorf("%w: destinatario_id es obligatorio", domain.ErrInvalidInput)
	}
	return nil
}

// RegisterIssue valida destinatario y producto, verifica stock y en una transacción
// inserta la saída y descuenta el stock con un update condicionado (stock >= quantidade).
// Si el update no afecta filas (otra saída concurrente ganó) se revierte con ErrInsufficientStock.
func (s *Service) RegisterIssue(ctx context.Context, in IssueInput) (*IssueResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	recipient, err := s.recipientRepo.GetByID(ctx, in.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: destinatário %d", domain.ErrNotFound, in.RecipientID)
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: produto %d", domain.ErrNotFound, in.ProductID)
	}
	if !ledger.CanIssue(product.StockQuantity, in.Quantity) {
		return nil, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, product.StockQuantity, in.Quantity)
	}

	issue := &entity.Issue{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		RecipientID: in.RecipientID,
		Notes:       in.Notes,
	}
	err = s.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.ReceiptRepository,
		issueRepo repository.IssueRepository,
	) error {
		if err := issueRepo.Create(ctx, issue); err != nil {
			return err
		}
		return productRepo.DecreaseStock(ctx, in.ProductID, in.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return &IssueResult{ID: issue.ID}, nil
}
