package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
)

// IssueFilter filtros de listado de saídas. From/To son inclusivos por fecha.
type IssueFilter struct {
	ProductID   int64
	RecipientID int64
	Sector      string
	From        *time.Time
	To          *time.Time
}

// IssueRepository puerto de persistencia para saídas.
type IssueRepository interface {
	Create(ctx context.Context, issue *entity.Issue) error
	List(ctx context.Context, filter IssueFilter) ([]*entity.IssueDetail, error)
	ExistsForProduct(ctx context.Context, productID int64) (bool, error)
}
