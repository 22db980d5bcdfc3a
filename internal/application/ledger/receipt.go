package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/ledger"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// ReceiptInput entrada para registrar un recebimento. Invoice es opcional.
type ReceiptInput struct {
	ProductID int64
	Quantity  int
	UnitValue decimal.Decimal
	Notes     string
	Invoice   *InvoiceFile
}

// ReceiptResult datos del recebimento registrado.
type ReceiptResult struct {
	ID         int64
	TotalValue decimal.Decimal
	Supplier   string
	InvoiceRef string
}

func (in ReceiptInput) validate() (decimal.Decimal, error) {
	if in.ProductID <= 0 {
		return decimal.Zero, fmt.Errorf("%w: produto_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return decimal.Zero, fmt.Errorf("%w: quantidade debe ser un entero positivo", domain.ErrInvalidInput)
	}
	if in.Quantity > ledger.MaxQuantity {
		return decimal.Zero, fmt.Errorf("%w: quantidade excede el máximo permitido (%d)", domain.ErrInvalidInput, ledger.MaxQuantity)
	}
	unit := ledger.RoundMoney(in.UnitValue)
	if !unit.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: valor_unitario debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if unit.GreaterThan(ledger.MaxUnitValue) {
		return decimal.Zero, fmt.Errorf("%w: valor_unitario excede el máximo permitido", domain.ErrInvalidInput)
	}
	if ledger.ReceiptTotal(in.Quantity, unit).GreaterThan(ledger.MaxTotalValue) {
		return decimal.Zero, fmt.Errorf("%w: valor total excede el máximo permitido", domain.ErrInvalidInput)
	}
	return unit, nil
}

// RegisterReceipt valida la entrada, guarda la nota fiscal (si hay) y en una transacción
// inserta el recebimento y suma la cantidad al stock del producto.
// Si la transacción falla, el archivo ya guardado se elimina.
func (s *Service) RegisterReceipt(ctx context.Context, in ReceiptInput) (*ReceiptResult, error) {
	unit, err := in.validate()
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: produto %d", domain.ErrNotFound, in.ProductID)
	}
	// Aviso temprano; bajo concurrencia decide IncreaseStock (22003 → ErrInvalidInput).
	if !ledger.FitsStock(product.StockQuantity, in.Quantity) {
		return nil, fmt.Errorf("%w: el stock resultante excede el máximo permitido (%d)", domain.ErrInvalidInput, ledger.MaxQuantity)
	}

	// El archivo se valida antes de cualquier escritura.
	var ref string
	if !in.Invoice.Empty() {
		if err := ValidateInvoice(in.Invoice); err != nil {
			return nil, err
		}
		ref, err = s.storage.Save(ctx, invoiceName(s.now()), in.Invoice.Data)
		if err != nil {
			return nil, err
		}
	}

	receipt := &entity.Receipt{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitValue:  unit,
		TotalValue: ledger.ReceiptTotal(in.Quantity, unit),
		Supplier:   ledger.SupplierFor(product.Manufacturer),
		Notes:      in.Notes,
		InvoiceRef: ref,
	}

	err = s.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.IssueRepository,
	) error {
		if err := receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}
		return productRepo.IncreaseStock(ctx, in.ProductID, in.Quantity)
	})
	if err != nil {
		s.discardInvoice(ctx, ref, "rollback recebimento")
		return nil, err
	}

	return &ReceiptResult{
		ID:         receipt.ID,
		TotalValue: receipt.TotalValue,
		Supplier:   receipt.Supplier,
		InvoiceRef: receipt.InvoiceRef,
	}, nil
}

// AttachOrReplaceInvoice adjunta o reemplaza la nota fiscal de un recebimento.
// La fila se bloquea mientras se cambia la referencia; el archivo anterior se borra
// después del commit y un fallo al borrarlo solo se registra.
func (s *Service) AttachOrReplaceInvoice(ctx context.Context, receiptID int64, file *InvoiceFile) (string, error) {
	if receiptID <= 0 {
		return "", fmt.Errorf("%w: id de recebimento inválido", domain.ErrInvalidInput)
	}
	current, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", fmt.Errorf("%w: recebimento %d", domain.ErrNotFound, receiptID)
	}
	if file.Empty() {
		return "", fmt.Errorf("%w: nota_fiscal_pdf es obligatorio", domain.ErrInvalidInput)
	}
	if err := ValidateInvoice(file); err != nil {
		return "", err
	}

	ref, err := s.storage.Save(ctx, invoiceName(s.now()), file.Data)
	if err != nil {
		return "", err
	}

	var oldRef string
	err = s.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		receiptRepo repository.ReceiptRepository,
		_ repository.IssueRepository,
	) error {
		locked, err := receiptRepo.GetForUpdate(ctx, receiptID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("%w: recebimento %d", domain.ErrNotFound, receiptID)
		}
		oldRef = locked.InvoiceRef
		return receiptRepo.UpdateInvoiceRef(ctx, receiptID, ref)
	})
	if err != nil {
		s.discardInvoice(ctx, ref, "rollback reemplazo de nota fiscal")
		return "", err
	}

	if oldRef != ref {
		s.discardInvoice(ctx, oldRef, "nota fiscal reemplazada")
	}
	return ref, nil
}
