// Package report genera reportes descargables del almoxarifado.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// StockReportData datos que recibe el generador del PDF.
type StockReportData struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	Products    []*entity.Product
}

// LowStockCount cantidad de productos por debajo del umbral.
func (d StockReportData) LowStockCount() int {
	n := 0
	for _, p := range d.Products {
		if p.IsLowStock() {
			n++
		}
	}
	return n
}

// TotalUnits suma del stock de todos los productos.
func (d StockReportData) TotalUnits() int {
	n := 0
	for _, p := range d.Products {
		n += p.StockQuantity
	}
	return n
}

// StockReportGenerator puerto de renderizado del reporte (implementado con Maroto).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, data StockReportData) ([]byte, error)
}

// StockReportUseCase genera el PDF de posición de stock.
type StockReportUseCase struct {
	productRepo repository.ProductRepository
	generator   StockReportGenerator
	now         func() time.Time
}

// NewStockReportUseCase construye el caso de uso.
func NewStockReportUseCase(productRepo repository.ProductRepository, generator StockReportGenerator) *StockReportUseCase {
	return &StockReportUseCase{productRepo: productRepo, generator: generator, now: time.Now}
}

// Generate devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *StockReportUseCase) Generate(ctx context.Context, filter repository.ProductFilter, requestedBy string) ([]byte, string, error) {
	products, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, "", fmt.Errorf("report: listar productos: %w", err)
	}
	now := uc.now()
	data := StockReportData{
		Title:       "Posição de estoque",
		GeneratedAt: now,
		GeneratedBy: requestedBy,
		Products:    products,
	}
	pdf, err := uc.generator.GenerateStockReport(ctx, data)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("estoque-%s.pdf", now.Format("20060102-1504")), nil
}
