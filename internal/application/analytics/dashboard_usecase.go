// Package analytics contiene los casos de uso del dashboard del administrador.
package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

const dashboardTopN = 10 // destinatarios y productos en los rankings

// DashboardUseCase arma las estadísticas de recebimentos, saídas y stock bajo.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// GetStats ejecuta las cinco consultas en paralelo; el primer error cancela las demás.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	var (
		byCategory  []repository.CategoryReceiptsResult
		byRecipient []repository.IssueAggregateResult
		bySector    []repository.IssueAggregateResult
		byProduct   []repository.IssueAggregateResult
		lowStock    []repository.LowStockResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if byCategory, err = uc.repo.ReceiptsByCategory(gctx); err != nil {
			return fmt.Errorf("dashboard: recebimentos por categoria: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if byRecipient, err = uc.repo.IssuesByRecipient(gctx, dashboardTopN); err != nil {
			return fmt.Errorf("dashboard: saídas por destinatario: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if bySector, err = uc.repo.IssuesBySector(gctx); err != nil {
			return fmt.Errorf("dashboard: saídas por setor: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if byProduct, err = uc.repo.IssuesByProduct(gctx, dashboardTopN); err != nil {
			return fmt.Errorf("dashboard: saídas por producto: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if lowStock, err = uc.repo.LowStock(gctx, entity.LowStockThreshold); err != nil {
			return fmt.Errorf("dashboard: stock bajo: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardStatsDTO{
		ReceiptsByCategory: make([]dto.CategoryReceiptsDTO, 0, len(byCategory)),
		IssuesByRecipient:  toIssueAggregates(byRecipient),
		IssuesBySector:     toIssueAggregates(bySector),
		IssuesByProduct:    toIssueAggregates(byProduct),
		LowStock:           make([]dto.LowStockDTO, 0, len(lowStock)),
	}
	for _, c := range byCategory {
		out.ReceiptsByCategory = append(out.ReceiptsByCategory, dto.CategoryReceiptsDTO{
			Category:      c.Category,
			TotalValue:    c.TotalValue.Round(2),
			TotalQuantity: c.TotalQuantity,
			ReceiptCount:  c.ReceiptCount,
		})
	}
	for _, p := range lowStock {
		out.LowStock = append(out.LowStock, dto.LowStockDTO{
			ProductID:     p.ProductID,
			Name:          p.Name,
			Category:      p.Category,
			StockQuantity: p.StockQuantity,
		})
	}
	return out, nil
}

func toIssueAggregates(rows []repository.IssueAggregateResult) []dto.IssueAggregateDTO {
	out := make([]dto.IssueAggregateDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.IssueAggregateDTO{
			Label:         r.Key,
			Detail:        r.Detail,
			TotalQuantity: r.TotalQuantity,
			IssueCount:    r.IssueCount,
		})
	}
	return out
}
