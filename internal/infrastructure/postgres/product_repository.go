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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, p.nome, COALESCE(p.descricao, ''), COALESCE(p.categoria, ''), COALESCE(p.fabricante, ''),
	COALESCE(p.prateleira, ''), COALESCE(p.alocacao, ''), p.quantidade_estoque, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Manufacturer,
		&p.Shelf, &p.Allocation, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto con stock 0. Campos descriptivos vacíos se guardan como NULL.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO produtos (nome, descricao, categoria, fabricante, prateleira, alocacao, quantidade_estoque)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), 0)
		RETURNING id, quantidade_estoque, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		product.Name, product.Description, product.Category, product.Manufacturer, product.Shelf, product.Allocation,
	).Scan(&product.ID, &product.StockQuantity, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con nome %q", domain.ErrDuplicate, product.Name)
		}
		return storageErr("insert produto", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM produtos p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get produto", err)
	}
	return p, nil
}

// List lista productos ordenados por nombre aplicando los filtros presentes.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var w whereBuilder
	if filter.Search != "" {
		w.add(`(p.nome ILIKE ? OR p.descricao ILIKE ? OR p.categoria ILIKE ? OR p.fabricante ILIKE ?)`, "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		w.add(`p.categoria = ?`, filter.Category)
	}
	if filter.Manufacturer != "" {
		w.add(`p.fabricante = ?`, filter.Manufacturer)
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM produtos p`+w.clause()+` ORDER BY p.nome ASC`, w.args...)
	if err != nil {
		return nil, storageErr("list produtos", err)
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, storageErr("scan produto", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list produtos", err)
	}
	return list, nil
}

// Update actualiza los campos descriptivos. No toca quantidade_estoque.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE produtos SET nome = $2, descricao = NULLIF($3, ''), categoria = NULLIF($4, ''),
			fabricante = NULLIF($5, ''), prateleira = NULLIF($6, ''), alocacao = NULLIF($7, ''), updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Category, product.Manufacturer, product.Shelf, product.Allocation,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con nome %q", domain.ErrDuplicate, product.Name)
		}
		return storageErr("update produto", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: produto %d", domain.ErrNotFound, product.ID)
	}
	return nil
}

// Delete elimina un producto junto con sus recebimentos y devuelve las notas
// fiscales que quedaron huérfanas. Producto y referencias salen del mismo
// snapshot: un recebimento concurrente no puede colarse entre la lectura y el borrado.
// Si tiene saídas la FK lo impide y se devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	query := `
		WITH del AS (
			DELETE FROM produtos WHERE id = $1 RETURNING id
		), rec AS (
			DELETE FROM recebimentos WHERE produto_id IN (SELECT id FROM del)
			RETURNING id, nota_fiscal_pdf
		)
		SELECT (SELECT COUNT(*) FROM del),
		       COALESCE(array_agg(nota_fiscal_pdf ORDER BY id)
		                FILTER (WHERE nota_fiscal_pdf IS NOT NULL AND nota_fiscal_pdf <> ''), '{}')
		FROM rec`
	var deleted int
	var refs []string
	if err := r.q.QueryRow(ctx, query, id).Scan(&deleted, &refs); err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: el producto tiene saídas registradas", domain.ErrConflict)
		}
		return nil, storageErr("delete produto", err)
	}
	if deleted == 0 {
		return nil, fmt.Errorf("%w: produto %d", domain.ErrNotFound, id)
	}
	return refs, nil
}

// Filters devuelve los valores distintos de las columnas usadas en los filtros del catálogo.
func (r *ProductRepo) Filters(ctx context.Context) (*repository.ProductFilterOptions, error) {
	out := &repository.ProductFilterOptions{}
	targets := []struct {
		column string
		dst    *[]string
	}{
		{"categoria", &out.Categories},
		{"fabricante", &out.Manufacturers},
		{"prateleira", &out.Shelves},
		{"alocacao", &out.Allocations},
	}
	for _, t := range targets {
		values, err := r.distinct(ctx, t.column)
		if err != nil {
			return nil, err
		}
		*t.dst = values
	}
	return out, nil
}

// distinct column viene de la lista fija de Filters, nunca del cliente.
func (r *ProductRepo) distinct(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM produtos WHERE %[1]s IS NOT NULL AND %[1]s <> '' ORDER BY %[1]s`, column)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, storageErr("distinct "+column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storageErr("distinct "+column, err)
	}
	return values, nil
}

// IncreaseStock suma quantity al stock del producto.
func (r *ProductRepo) IncreaseStock(ctx context.Context, id int64, quantity int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE produtos SET quantidade_estoque = quantidade_estoque + $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if isOutOfRange(err) {
		return fmt.Errorf("%w: el stock resultante excede el máximo permitido", domain.ErrInvalidInput)
	}
	if err != nil {
		return storageErr("incrementar estoque", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: produto %d", domain.ErrNotFound, id)
	}
	return nil
}

// DecreaseStock resta quantity solo si alcanza el stock. El WHERE hace de guardia atómica:
// dos saídas concurrentes no pueden dejar el stock negativo.
func (r *ProductRepo) DecreaseStock(ctx context.Context, id int64, quantity int) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE produtos SET quantidade_estoque = quantidade_estoque - $2, updated_at = now()
		 WHERE id = $1 AND quantidade_estoque >= $2`,
		id, quantity,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: produto %d", domain.ErrInsufficientStock, id)
		}
		return storageErr("descontar estoque", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: produto %d", domain.ErrInsufficientStock, id)
	}
	return nil
}
