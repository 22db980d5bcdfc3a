package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// InvoiceRemover borra notas fiscales del storage (subconjunto de ledger.InvoiceStorage).
type InvoiceRemover interface {
	Delete(ctx context.Context, ref string) error
}

// ProductUseCase casos de uso CRUD para productos. El stock solo se modifica vía recebimentos y saídas.
type ProductUseCase struct {
	repo      repository.ProductRepository
	issueRepo repository.IssueRepository
	invoices  InvoiceRemover
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	issueRepo repository.IssueRepository,
	invoices InvoiceRemover,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, issueRepo: issueRepo, invoices: invoices}
}

// Create crea un nuevo producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome es obligatorio", domain.ErrInvalidInput)
	}
	product := &entity.Product{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Manufacturer:  strings.TrimSpace(in.Manufacturer),
		Shelf:         strings.TrimSpace(in.Shelf),
		Allocation:    strings.TrimSpace(in.Allocation),
		StockQuantity: 0,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: produto %d", domain.ErrNotFound, id)
	}
	return toProductResponse(product), nil
}

// List lista productos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:       strings.TrimSpace(q.Search),
		Category:     strings.TrimSpace(q.Category),
		Manufacturer: strings.TrimSpace(q.Manufacturer),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Update actualiza los campos descriptivos. quantidade_estoque no es editable.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome es obligatorio", domain.ErrInvalidInput)
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: produto %d", domain.ErrNotFound, id)
	}
	product.Name = name
	product.Description = strings.TrimSpace(in.Description)
	product.Category = strings.TrimSpace(in.Category)
	product.Manufacturer = strings.TrimSpace(in.Manufacturer)
	product.Shelf = strings.TrimSpace(in.Shelf)
	product.Allocation = strings.TrimSpace(in.Allocation)
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un producto sin historial de saídas junto con sus recebimentos.
// Las notas fiscales que devuelve el borrado se eliminan del storage (best-effort).
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: produto %d", domain.ErrNotFound, id)
	}
	hasIssues, err := uc.issueRepo.ExistsForProduct(ctx, id)
	if err != nil {
		return err
	}
	if hasIssues {
		return fmt.Errorf("%w: el producto tiene saídas registradas", domain.ErrConflict)
	}
	refs, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := uc.invoices.Delete(ctx, ref); err != nil {
			log.Warn().Err(err).Int64("product_id", id).Str("ref", ref).Msg("no se pudo eliminar la nota fiscal del producto borrado")
		}
	}
	return nil
}

// Filters devuelve las opciones distintas para los filtros del catálogo.
func (uc *ProductUseCase) Filters(ctx context.Context) (*dto.ProductFiltersResponse, error) {
	opts, err := uc.repo.Filters(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ProductFiltersResponse{
		Categories:    nonNil(opts.Categories),
		Manufacturers: nonNil(opts.Manufacturers),
		Shelves:       nonNil(opts.Shelves),
		Allocations:   nonNil(opts.Allocations),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Manufacturer:  p.Manufacturer,
		Shelf:         p.Shelf,
		Allocation:    p.Allocation,
		StockQuantity: p.StockQuantity,
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
