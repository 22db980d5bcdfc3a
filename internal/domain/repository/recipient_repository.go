package repository

import (
	"context"

	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
)

// RecipientRepository puerto de persistencia para destinatários.
type RecipientRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Recipient, error)
	GetByNameAndSector(ctx context.Context, name, sector string) (*entity.Recipient, error)
	// CreateIfAbsent inserta con ON CONFLICT DO NOTHING; devuelve (nil, nil) si otro insert ganó.
	CreateIfAbsent(ctx context.Context, name, sector string) (*entity.Recipient, error)
	List(ctx context.Context, search string) ([]*entity.Recipient, error)
}
