package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
)

// EnsureRecipient devuelve el destinatário (nome, setor) existente o lo crea.
// created es true solo si esta llamada insertó la fila.
func (s *Service) EnsureRecipient(ctx context.Context, name, sector string) (*entity.Recipient, bool, error) {
	name = strings.TrimSpace(name)
	sector = strings.TrimSpace(sector)
	if name == "" || sector == "" {
		return nil, false, fmt.Errorf("%w: nome y setor son obligatorios", domain.ErrInvalidInput)
	}

	existing, err := s.recipientRepo.GetByNameAndSector(ctx, name, sector)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := s.recipientRepo.CreateIfAbsent(ctx, name, sector)
	if err != nil {
		return nil, false, err
	}
	if created != nil {
		return created, true, nil
	}

	// Un insert concurrente ganó el par (nome, setor).
	existing, err = s.recipientRepo.GetByNameAndSector(ctx, name, sector)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("%w: destinatário desapareció tras conflicto", domain.ErrConflict)
	}
	return existing, false, nil
}
