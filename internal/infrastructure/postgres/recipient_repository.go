package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

var _ repository.RecipientRepository = (*RecipientRepo)(nil)

// RecipientRepo implementación de RecipientRepository.
type RecipientRepo struct {
	q Querier
}

// NewRecipientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipientRepository(q Querier) *RecipientRepo {
	return &RecipientRepo{q: q}
}

const recipientColumns = `id, nome, setor, created_at`

func (r *RecipientRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Recipient, error) {
	var rc entity.Recipient
	err := r.q.QueryRow(ctx, query, args...).Scan(&rc.ID, &rc.Name, &rc.Sector, &rc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return &rc, nil
}

// GetByID obtiene un destinatário. (nil, nil) si no existe.
func (r *RecipientRepo) GetByID(ctx context.Context, id int64) (*entity.Recipient, error) {
	return r.getOne(ctx, "get destinatário", `SELECT `+recipientColumns+` FROM destinatarios WHERE id = $1`, id)
}

// GetByNameAndSector búsqueda exacta por el par único (nome, setor).
func (r *RecipientRepo) GetByNameAndSector(ctx context.Context, name, sector string) (*entity.Recipient, error) {
	return r.getOne(ctx, "get destinatário por nome/setor",
		`SELECT `+recipientColumns+` FROM destinatarios WHERE nome = $1 AND setor = $2`, name, sector)
}

// CreateIfAbsent inserta el par; si ya existe (insert concurrente) no hay fila RETURNING y devuelve (nil, nil).
func (r *RecipientRepo) CreateIfAbsent(ctx context.Context, name, sector string) (*entity.Recipient, error) {
	return r.getOne(ctx, "insert destinatário", `
		INSERT INTO destinatarios (nome, setor) VALUES ($1, $2)
		ON CONFLICT (nome, setor) DO NOTHING
		RETURNING `+recipientColumns, name, sector)
}

// List lista destinatários filtrando por nome o setor (ILIKE), ordenados por nome y setor.
func (r *RecipientRepo) List(ctx context.Context, search string) ([]*entity.Recipient, error) {
	var w whereBuilder
	if search != "" {
		w.add(`(nome ILIKE ? OR setor ILIKE ?)`, "%"+search+"%")
	}
	rows, err := r.q.Query(ctx, `SELECT `+recipientColumns+` FROM destinatarios`+w.clause()+` ORDER BY nome, setor`, w.args...)
	if err != nil {
		return nil, storageErr("list destinatários", err)
	}
	defer rows.Close()
	list := []*entity.Recipient{}
	for rows.Next() {
		var rc entity.Recipient
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.Sector, &rc.CreatedAt); err != nil {
			return nil, storageErr("scan destinatário", err)
		}
		list = append(list, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list destinatários", err)
	}
	return list, nil
}
