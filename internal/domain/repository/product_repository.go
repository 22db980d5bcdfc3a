package repository

import (
	"context"

	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos (todos opcionales).
type ProductFilter struct {
	Search       string // ILIKE en nombre, descripción, categoría o fabricante
	Category     string
	Manufacturer string
}

// ProductFilterOptions valores distintos no vacíos para los selectores del catálogo.
type ProductFilterOptions struct {
	Categories    []string
	Manufacturers []string
	Shelves       []string
	Allocations   []string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Update modifica solo los campos descriptivos; nunca quantidade_estoque.
	Update(ctx context.Context, product *entity.Product) error
	// Delete borra el producto y sus recebimentos en una sola sentencia y devuelve
	// las referencias de notas fiscales de los recebimentos borrados.
	Delete(ctx context.Context, id int64) ([]string, error)
	Filters(ctx context.Context) (*ProductFilterOptions, error)

	// IncreaseStock suma quantity al stock. ErrNotFound si el producto no existe.
	IncreaseStock(ctx context.Context, id int64, quantity int) error
	// DecreaseStock resta quantity solo si stock >= quantity (update condicionado).
	// ErrInsufficientStock cuando ninguna fila fue afectada.
	DecreaseStock(ctx context.Context, id int64, quantity int) error
}
