package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

var _ repository.IssueRepository = (*IssueRepo)(nil)

// IssueRepo implementación de IssueRepository (pool o tx).
type IssueRepo struct {
	q Querier
}

// NewIssueRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIssueRepository(q Querier) *IssueRepo {
	return &IssueRepo{q: q}
}

// Create inserta la saída. Una FK inválida (producto o destinatario) devuelve ErrNotFound.
func (r *IssueRepo) Create(ctx context.Context, issue *entity.Issue) error {
	query := `
		INSERT INTO saidas (produto_id, quantidade, destinatario_id, observacoes)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, issue.ProductID, issue.Quantity, issue.RecipientID, issue.Notes).
		Scan(&issue.ID, &issue.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: produto o destinatário inexistente", domain.ErrNotFound)
		}
		return storageErr("insert saída", err)
	}
	return nil
}

// List lista saídas con producto y destinatario, más recientes primero.
// To es inclusivo: se compara contra el inicio del día siguiente.
func (r *IssueRepo) List(ctx context.Context, filter repository.IssueFilter) ([]*entity.IssueDetail, error) {
	var w whereBuilder
	if filter.ProductID > 0 {
		w.add(`s.produto_id = ?`, filter.ProductID)
	}
	if filter.RecipientID > 0 {
		w.add(`s.destinatario_id = ?`, filter.RecipientID)
	}
	if filter.Sector != "" {
		w.add(`d.setor ILIKE ?`, "%"+filter.Sector+"%")
	}
	if filter.From != nil {
		w.add(`s.created_at >= ?`, *filter.From)
	}
	if filter.To != nil {
		w.add(`s.created_at < ?`, filter.To.AddDate(0, 0, 1))
	}
	query := `
		SELECT s.id, s.produto_id, s.quantidade, s.destinatario_id, COALESCE(s.observacoes, ''), s.created_at,
			p.nome, COALESCE(p.descricao, ''), d.nome, d.setor
		FROM saidas s
		JOIN produtos p ON p.id = s.produto_id
		JOIN destinatarios d ON d.id = s.destinatario_id` + w.clause() + `
		ORDER BY s.created_at DESC, s.id DESC`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storageErr("list saídas", err)
	}
	defer rows.Close()
	list := []*entity.IssueDetail{}
	for rows.Next() {
		var d entity.IssueDetail
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Quantity, &d.RecipientID, &d.Notes, &d.CreatedAt,
			&d.ProductName, &d.ProductDescription, &d.RecipientName, &d.RecipientSector); err != nil {
			return nil, storageErr("scan saída", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list saídas", err)
	}
	return list, nil
}

// ExistsForProduct indica si el producto tiene alguna saída.
func (r *IssueRepo) ExistsForProduct(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM saidas WHERE produto_id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, storageErr("saídas do produto", err)
	}
	return exists, nil
}
