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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, usuario, senha, perfil, ativo, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) findOne(ctx context.Context, op, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO usuarios (usuario, senha, perfil, ativo)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, user.Username, user.PasswordHash, user.Role, user.Active).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario %q ya existe", domain.ErrDuplicate, user.Username)
		}
		return storageErr("insert usuario", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, "get usuario", `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
}

// GetActiveByUsername obtiene un usuario activo por nombre de usuario (login).
func (r *UserRepo) GetActiveByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "get usuario activo",
		`SELECT `+userColumns+` FROM usuarios WHERE usuario = $1 AND ativo = TRUE`, username)
}

// ExistsByUsername indica si otro usuario (distinto de excludeID) ya usa username.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM usuarios WHERE usuario = $1 AND id <> $2)`, username, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, storageErr("exists usuario", err)
	}
	return exists, nil
}

// Update reescribe usuario, senha, perfil y ativo.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	err := r.q.QueryRow(ctx, `
		UPDATE usuarios SET usuario = $2, senha = $3, perfil = $4, ativo = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		user.ID, user.Username, user.PasswordHash, user.Role, user.Active,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario %q ya existe", domain.ErrDuplicate, user.Username)
		}
		return storageErr("update usuario", err)
	}
	return nil
}

// List lista todos los usuarios ordenados por nombre de usuario.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM usuarios ORDER BY usuario`)
	if err != nil {
		return nil, storageErr("list usuarios", err)
	}
	defer rows.Close()
	list := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageErr("scan usuario", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list usuarios", err)
	}
	return list, nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete usuario", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
