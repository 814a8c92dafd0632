package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jhoicas/hortti-inventory/internal/domain"
	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
	"github.com/jhoicas/hortti-inventory/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var sortColumns = map[string]string{
	repository.SortByName:      "search_name",
	repository.SortByPrice:     "price_cents",
	repository.SortByCreatedAt: "created_at",
}

// ProductRepo implementación del puerto ProductRepository sobre GORM.
type ProductRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProductRepository construye el adaptador.
func NewProductRepository(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db, now: time.Now}
}

// Create persiste un nuevo producto y asigna ID y timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	m := productFromEntity(p)
	m.ID = 0
	m.CreatedAt = r.now()
	m.UpdatedAt = m.CreatedAt
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = m.ID, m.CreatedAt, m.UpdatedAt
	return nil
}

// GetByID obtiene un producto por ID sin filtrar por active.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return m.toEntity(), nil
}

// Update persiste todos los campos mutables (incluidos valores cero) y refresca updated_at.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	m := productFromEntity(p)
	now := r.now()
	res := r.db.WithContext(ctx).Model(&productModel{}).Where("id = ?", p.ID).UpdateColumns(map[string]any{
		"name":        m.Name,
		"search_name": m.SearchName,
		"category":    m.Category,
		"price_cents": m.PriceCents,
		"stock":       m.Stock,
		"image_url":   m.ImageURL,
		"description": m.Description,
		"active":      m.Active,
		"updated_at":  now,
	})
	if res.Error != nil {
		return fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: p.ID}
	}
	p.UpdatedAt = now
	return nil
}

// Delete elimina el registro definitivamente.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&productModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return nil
}

// List aplica filtros, orden y ventana; devuelve además el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&productModel{}).Scopes(filtered(f)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var models []productModel
	if err := r.db.WithContext(ctx).Scopes(filtered(f), ordered(f), paged(f)).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out, total, nil
}

func filtered(f repository.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ActiveOnly {
			db = db.Where("active = ?", true)
		}
		if f.Category != "" {
			db = db.Where("category = ?", string(f.Category))
		}
		if f.Search != "" {
			db = db.Where(`search_name LIKE ? ESCAPE '\'`, containsPattern(foldName(f.Search)))
		}
		return db
	}
}

// ordered agrega id como segundo criterio para que la paginación sea estable con empates.
func ordered(f repository.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		col, ok := sortColumns[f.SortBy]
		if !ok {
			col = sortColumns[repository.SortByCreatedAt]
		}
		dir := "DESC"
		if strings.EqualFold(f.Order, repository.OrderAsc) {
			dir = "ASC"
		}
		return db.Order(col + " " + dir).Order("id " + dir)
	}
}

func paged(f repository.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Limit > 0 {
			db = db.Limit(f.Limit)
		}
		if f.Offset > 0 {
			db = db.Offset(f.Offset)
		}
		return db
	}
}
