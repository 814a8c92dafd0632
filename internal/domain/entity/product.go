package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category clasifica un producto de la tienda.
type Category string

const (
	CategoryFruit     Category = "fruit"
	CategoryVegetable Category = "vegetable"
	CategoryLegume    Category = "legume"
)

// Categories lista las categorías válidas en orden de presentación.
var Categories = []Category{CategoryFruit, CategoryVegetable, CategoryLegume}

// Alias en español aceptados en la entrada.
var categoryAliases = map[string]Category{
	"fruit":     CategoryFruit,
	"fruta":     CategoryFruit,
	"vegetable": CategoryVegetable,
	"verdura":   CategoryVegetable,
	"legume":    CategoryLegume,
	"legumbre":  CategoryLegume,
}

// ParseCategory normaliza una categoría (sin distinguir mayúsculas) a su valor canónico.
func ParseCategory(s string) (Category, error) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("categoría desconocida %q", s)
}

// Label devuelve el nombre de la categoría para reportes.
func (c Category) Label() string {
	switch c {
	case CategoryFruit:
		return "Fruta"
	case CategoryVegetable:
		return "Verdura"
	case CategoryLegume:
		return "Legumbre"
	default:
		return string(c)
	}
}

// Product representa un producto del inventario.
// ImageURL y Description vacíos significan "sin valor".
type Product struct {
	ID          int64
	Name        string
	Category    Category
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPatch contiene los campos a sobrescribir; nil significa "sin cambio".
type ProductPatch struct {
	Name        *string
	Category    *Category
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
	Description *string
}

// Apply copia sobre p los campos presentes en el patch.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
}
