package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas de solo lectura para el panel.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador del dashboard.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// ReceiptsByCategory valor, cantidad y número de recebimentos por categoría.
// Productos sin categoría se agrupan en "Sem categoria".
func (r *DashboardRepo) ReceiptsByCategory(ctx context.Context) ([]repository.CategoryReceiptsResult, error) {
	const query = `
	SELECT
	    COALESCE(NULLIF(p.categoria, ''), 'Sem categoria') AS categoria,
	    COALESCE(SUM(r.valor_total), 0)                   AS valor_total,
	    COALESCE(SUM(r.quantidade), 0)                    AS quantidade_total,
	    COUNT(r.id)                                       AS recebimentos
	FROM recebimentos r
	JOIN produtos p ON p.id = r.produto_id
	GROUP BY 1
	ORDER BY valor_total DESC, categoria`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, storageErr("dashboard recebimentos por categoria", err)
	}
	defer rows.Close()

	results := []repository.CategoryReceiptsResult{}
	for rows.Next() {
		var row repository.CategoryReceiptsResult
		if err := rows.Scan(&row.Category, &row.TotalValue, &row.TotalQuantity, &row.ReceiptCount); err != nil {
			return nil, storageErr("scan recebimentos por categoria", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("dashboard recebimentos por categoria", err)
	}
	return results, nil
}

// IssuesByRecipient top de destinatários por cantidad retirada; Detail lleva el setor.
func (r *DashboardRepo) IssuesByRecipient(ctx context.Context, limit int) ([]repository.IssueAggregateResult, error) {
	const query = `
	SELECT d.nome, d.setor, SUM(s.quantidade) AS quantidade_total, COUNT(s.id) AS saidas
	FROM saidas s
	JOIN destinatarios d ON d.id = s.destinatario_id
	GROUP BY d.id, d.nome, d.setor
	ORDER BY quantidade_total DESC, d.nome
	LIMIT $1`
	return r.aggregate(ctx, "dashboard saídas por destinatário", query, limit)
}

// IssuesBySector cantidad retirada por setor ("Não informado" si está vacío).
func (r *DashboardRepo) IssuesBySector(ctx context.Context) ([]repository.IssueAggregateResult, error) {
	const query = `
	SELECT COALESCE(NULLIF(d.setor, ''), 'Não informado') AS setor, '' AS detalhe,
	       SUM(s.quantidade) AS quantidade_total, COUNT(s.id) AS saidas
	FROM saidas s
	JOIN destinatarios d ON d.id = s.destinatario_id
	GROUP BY 1
	ORDER BY quantidade_total DESC, setor`
	return r.aggregate(ctx, "dashboard saídas por setor", query)
}

// IssuesByProduct top de productos más retirados; Detail lleva la categoría.
func (r *DashboardRepo) IssuesByProduct(ctx context.Context, limit int) ([]repository.IssueAggregateResult, error) {
	const query = `
	SELECT p.nome, COALESCE(p.categoria, ''), SUM(s.quantidade) AS quantidade_total, COUNT(s.id) AS saidas
	FROM saidas s
	JOIN produtos p ON p.id = s.produto_id
	GROUP BY p.id, p.nome, p.categoria
	ORDER BY quantidade_total DESC, p.nome
	LIMIT $1`
	return r.aggregate(ctx, "dashboard saídas por produto", query, limit)
}

func (r *DashboardRepo) aggregate(ctx context.Context, op, query string, args ...any) ([]repository.IssueAggregateResult, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.IssueAggregateResult, error) {
		var res repository.IssueAggregateResult
		err := row.Scan(&res.Key, &res.Detail, &res.TotalQuantity, &res.IssueCount)
		return res, err
	})
	if err != nil {
		return nil, storageErr(op, err)
	}
	return results, nil
}

// LowStock productos con stock por debajo de threshold, del menor al mayor.
func (r *DashboardRepo) LowStock(ctx context.Context, threshold int) ([]repository.LowStockResult, error) {
	const query = `
	SELECT id, nome, COALESCE(categoria, ''), quantidade_estoque
	FROM produtos
	WHERE quantidade_estoque < $1
	ORDER BY quantidade_estoque ASC, nome`

	rows, err := r.q.Query(ctx, query, threshold)
	if err != nil {
		return nil, storageErr("dashboard estoque baixo", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.LowStockResult, error) {
		var res repository.LowStockResult
		err := row.Scan(&res.ProductID, &res.Name, &res.Category, &res.StockQuantity)
		return res, err
	})
	if err != nil {
		return nil, storageErr("dashboard estoque baixo", err)
	}
	return results, nil
}
