package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hortti-inventory/internal/domain"
	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
	"github.com/jhoicas/hortti-inventory/internal/domain/repository"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Category    string           `json:"category" validate:"required"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"3.50"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0,max=2147483647"`
	ImageURL    string           `json:"imageUrl" validate:"omitempty,max=500"`
	Description string           `json:"description" validate:"omitempty,max=1000"`
}

// Validate revisa todas las reglas y devuelve un *domain.ValidationError con cada campo inválido.
func (r *CreateProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	var verr domain.ValidationError
	validateStruct(r, &verr)
	if r.Category != "" {
		if _, err := entity.ParseCategory(r.Category); err != nil {
			verr.Add("category", categoryMessage)
		}
	}
	if r.Price == nil {
		verr.Add("price", "es obligatorio")
	} else {
		checkPrice("price", *r.Price, &verr)
	}
	return verr.OrNil()
}

// ToEntity construye el producto a persistir. Llamar solo después de Validate.
func (r *CreateProductRequest) ToEntity() (*entity.Product, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	category, _ := entity.ParseCategory(r.Category)
	stock := 0
	if r.Stock != nil {
		stock = *r.Stock
	}
	return &entity.Product{
		Name:        r.Name,
		Category:    category,
		Price:       *r.Price,
		Stock:       stock,
		ImageURL:    strings.TrimSpace(r.ImageURL),
		Description: r.Description,
		Active:      true,
	}, nil
}

// UpdateProductRequest entrada para actualizar un producto; los campos nil no cambian.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"3.50"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0,max=2147483647"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,max=500"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
}

// Validate revisa solo los campos presentes.
func (r *UpdateProductRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	var verr domain.ValidationError
	validateStruct(r, &verr)
	if r.Category != nil {
		if _, err := entity.ParseCategory(*r.Category); err != nil {
			verr.Add("category", categoryMessage)
		}
	}
	if r.Price != nil {
		checkPrice("price", *r.Price, &verr)
	}
	return verr.OrNil()
}

// ToPatch valida y convierte la entrada al patch de dominio.
func (r *UpdateProductRequest) ToPatch() (entity.ProductPatch, error) {
	if err := r.Validate(); err != nil {
		return entity.ProductPatch{}, err
	}
	patch := entity.ProductPatch{
		Name:        r.Name,
		Price:       r.Price,
		Stock:       r.Stock,
		Description: r.Description,
	}
	if r.Category != nil {
		c, _ := entity.ParseCategory(*r.Category)
		patch.Category = &c
	}
	if r.ImageURL != nil {
		ref := strings.TrimSpace(*r.ImageURL)
		patch.ImageURL = &ref
	}
	return patch, nil
}

var categoryMessage = buildCategoryMessage()

func buildCategoryMessage() string {
	names := make([]string, len(entity.Categories))
	for i, c := range entity.Categories {
		names[i] = string(c)
	}
	last := len(names) - 1
	return "debe ser: " + strings.Join(names[:last], ", ") + " o " + names[last] + " (fruta, verdura o legumbre)"
}

// ProductQuery filtros, orden y paginación del listado.
type ProductQuery struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	SortBy   string `query:"sortBy" validate:"omitempty,oneof=name price createdAt"`
	Order    string `query:"order" validate:"omitempty,oneof=ASC DESC"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

// Normalize valida la consulta y aplica valores por defecto: página 1, 10 por página
// (máximo 100), orden createdAt DESC.
func (q *ProductQuery) Normalize() error {
	q.Search = strings.TrimSpace(q.Search)
	q.Order = strings.ToUpper(strings.TrimSpace(q.Order))
	var verr domain.ValidationError
	validateStruct(q, &verr)
	if q.Category != "" {
		c, err := entity.ParseCategory(q.Category)
		if err != nil {
			verr.Add("category", categoryMessage)
		} else {
			q.Category = string(c)
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	if q.SortBy == "" {
		q.SortBy = repository.SortByCreatedAt
	}
	if q.Order == "" {
		q.Order = repository.OrderDesc
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return nil
}

// Filter traduce la consulta (ya normalizada) al filtro del repositorio, solo activos.
func (q *ProductQuery) Filter() repository.ProductFilter {
	return repository.ProductFilter{
		Search:     q.Search,
		Category:   entity.Category(q.Category),
		ActiveOnly: true,
		SortBy:     q.SortBy,
		Order:      q.Order,
		Offset:     (q.Page - 1) * q.Limit,
		Limit:      q.Limit,
	}
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"3.50"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"imageUrl"`
	Description *string         `json:"description"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

// ProductEnvelope respuesta {product}.
type ProductEnvelope struct {
	Product ProductResponse `json:"product"`
}

// ProductMessageResponse respuesta {message, product} de las mutaciones.
type ProductMessageResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

// UploadResponse salida de POST /api/upload/image.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	ImageURL string `json:"imageUrl"`
}

// ToProductResponse mapea la entidad; imagen y descripción vacías salen como null.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    nullable(p.ImageURL),
		Description: nullable(p.Description),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
