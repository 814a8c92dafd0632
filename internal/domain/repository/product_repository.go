package repository

import (
	"context"

	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
)

// Campos de ordenamiento admitidos por List.
const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByCreatedAt = "createdAt"
)

// Direcciones de ordenamiento.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// ProductFilter combina filtros conjuntivos, orden y ventana de paginación.
// Limit <= 0 significa sin límite.
type ProductFilter struct {
	Search     string
	Category   entity.Category
	ActiveOnly bool
	SortBy     string
	Order      string
	Offset     int
	Limit      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si no existe. No filtra por Active.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// Update persiste todos los campos mutables y refresca UpdatedAt.
	Update(ctx context.Context, product *entity.Product) error
	// List devuelve la página pedida y el total de registros que cumplen el filtro.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int64, error)
	Delete(ctx context.Context, id int64) error
}
