package sqlstore

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
)

type userModel struct {
	ID           int64  `gorm:"primaryKey"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	Name         string `gorm:"size:255;not null"`
	Role         string `gorm:"size:20;not null"`
	Active       bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         m.Role,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// productModel guarda el precio en centavos para ordenar numéricamente
// y el nombre plegado (case folding) para la búsqueda sin distinguir mayúsculas.
type productModel struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	SearchName  string    `gorm:"size:255;not null;index"`
	Category    string    `gorm:"size:20;not null;index"`
	PriceCents  int64     `gorm:"not null"`
	Stock       int       `gorm:"not null"`
	ImageURL    string    `gorm:"size:500"`
	Description string    `gorm:"size:1000"`
	Active      bool      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (productModel) TableName() string { return "products" }

func productFromEntity(p *entity.Product) productModel {
	return productModel{
		ID:          p.ID,
		Name:        p.Name,
		SearchName:  foldName(p.Name),
		Category:    string(p.Category),
		PriceCents:  p.Price.Shift(2).Round(0).IntPart(),
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *productModel) toEntity() *entity.Product {
	return &entity.Product{
		ID:          m.ID,
		Name:        m.Name,
		Category:    entity.Category(m.Category),
		Price:       decimal.New(m.PriceCents, -2),
		Stock:       m.Stock,
		ImageURL:    m.ImageURL,
		Description: m.Description,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// foldName normaliza para comparar sin distinguir mayúsculas (incluye acentos en mayúscula: "ÁRBOL" -> "árbol").
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
