package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación de ReceiptRepository (pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

const receiptColumns = `
	r.id, r.produto_id, r.quantidade, r.valor_unitario, r.valor_total, r.fornecedor,
	COALESCE(r.observacoes, ''), COALESCE(r.nota_fiscal_pdf, ''), r.created_at`

func scanReceipt(row pgx.Row, extra ...any) (*entity.Receipt, error) {
	var rc entity.Receipt
	dst := append([]any{&rc.ID, &rc.ProductID, &rc.Quantity, &rc.UnitValue, &rc.TotalValue, &rc.Supplier,
		&rc.Notes, &rc.InvoiceRef, &rc.CreatedAt}, extra...)
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Create inserta el recebimento. Un produto_id inexistente devuelve ErrNotFound.
func (r *ReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	query := `
		INSERT INTO recebimentos (produto_id, quantidade, valor_unitario, valor_total, fornecedor, observacoes, nota_fiscal_pdf)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		receipt.ProductID, receipt.Quantity, receipt.UnitValue, receipt.TotalValue,
		receipt.Supplier, receipt.Notes, receipt.InvoiceRef,
	).Scan(&receipt.ID, &receipt.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: produto %d", domain.ErrNotFound, receipt.ProductID)
		}
		return storageErr("insert recebimento", err)
	}
	return nil
}

// GetByID obtiene un recebimento. (nil, nil) si no existe.
func (r *ReceiptRepo) GetByID(ctx context.Context, id int64) (*entity.Receipt, error) {
	return r.get(ctx, `SELECT `+receiptColumns+` FROM recebimentos r WHERE r.id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloqueando la fila hasta el fin de la tx.
func (r *ReceiptRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Receipt, error) {
	return r.get(ctx, `SELECT `+receiptColumns+` FROM recebimentos r WHERE r.id = $1 FOR UPDATE`, id)
}

func (r *ReceiptRepo) get(ctx context.Context, query string, id int64) (*entity.Receipt, error) {
	rc, err := scanReceipt(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get recebimento", err)
	}
	return rc, nil
}

// UpdateInvoiceRef reemplaza la referencia de la nota fiscal.
func (r *ReceiptRepo) UpdateInvoiceRef(ctx context.Context, id int64, ref string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE recebimentos SET nota_fiscal_pdf = NULLIF($2, '') WHERE id = $1`, id, ref)
	if err != nil {
		return storageErr("update nota fiscal", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: recebimento %d", domain.ErrNotFound, id)
	}
	return nil
}

// List lista recebimentos con datos del producto, más recientes primero.
func (r *ReceiptRepo) List(ctx context.Context, filter repository.ReceiptFilter) ([]*entity.ReceiptDetail, error) {
	var w whereBuilder
	if filter.ProductID > 0 {
		w.add(`r.produto_id = ?`, filter.ProductID)
	}
	query := `SELECT ` + receiptColumns + `, p.nome, COALESCE(p.descricao, ''), COALESCE(p.fabricante, '')
		FROM recebimentos r JOIN produtos p ON p.id = r.produto_id` + w.clause() + `
		ORDER BY r.created_at DESC, r.id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + w.arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + w.arg(filter.Offset)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storageErr("list recebimentos", err)
	}
	defer rows.Close()
	list := []*entity.ReceiptDetail{}
	for rows.Next() {
		d := &entity.ReceiptDetail{}
		rc, err := scanReceipt(rows, &d.ProductName, &d.ProductDescription, &d.ProductManufacturer)
		if err != nil {
			return nil, storageErr("scan recebimento", err)
		}
		d.Receipt = *rc
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list recebimentos", err)
	}
	return list, nil
}


