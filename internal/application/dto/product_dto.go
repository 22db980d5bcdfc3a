package dto

import "time"

// CreateProductRequest entrada para crear un producto. El stock inicia en 0 y no se recibe.
type CreateProductRequest struct {
	Name         string `json:"nome" validate:"required,max=255"`
	Description  string `json:"descricao"`
	Category     string `json:"categoria" validate:"max=255"`
	Manufacturer string `json:"fabricante" validate:"max=255"`
	Shelf        string `json:"prateleira" validate:"max=255"`
	Allocation   string `json:"alocacao" validate:"max=255"`
}

// UpdateProductRequest entrada para actualizar un producto (sin quantidade_estoque).
type UpdateProductRequest struct {
	Name         string `json:"nome" validate:"required,max=255"`
	Description  string `json:"descricao"`
	Category     string `json:"categoria" validate:"max=255"`
	Manufacturer string `json:"fabricante" validate:"max=255"`
	Shelf        string `json:"prateleira" validate:"max=255"`
	Allocation   string `json:"alocacao" validate:"max=255"`
}

// ProductListQuery filtros de GET /api/produtos.
type ProductListQuery struct {
	Search       string `query:"busca"`
	Category     string `query:"categoria"`
	Manufacturer string `query:"fabricante"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"nome"`
	Description   string    `json:"descricao,omitempty"`
	Category      string    `json:"categoria,omitempty"`
	Manufacturer  string    `json:"fabricante,omitempty"`
	Shelf         string    `json:"prateleira,omitempty"`
	Allocation    string    `json:"alocacao,omitempty"`
	StockQuantity int       `json:"quantidade_estoque"`
	LowStock      bool      `json:"estoque_baixo"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// ProductFiltersResponse opciones para los filtros del catálogo.
type ProductFiltersResponse struct {
	Categories    []string `json:"categorias"`
	Manufacturers []string `json:"fabricantes"`
	Shelves       []string `json:"prateleiras"`
	Allocations   []string `json:"alocacoes"`
}
