package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/hortti-inventory/internal/application/dto"
	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
	"github.com/jhoicas/hortti-inventory/internal/domain/repository"
)

// MaxProducts tope de productos por exportación.
const MaxProducts = 5000

// Catalog instantánea de productos activos lista para exportar.
type Catalog struct {
	Title       string
	GeneratedAt time.Time
	Search      string
	Category    entity.Category
	Products    []*entity.Product
}

// PDFRenderer genera el reporte PDF del catálogo.
type PDFRenderer interface {
	RenderCatalog(ctx context.Context, c *Catalog) ([]byte, error)
}

// FeedEncoder serializa el catálogo como feed XML.
type FeedEncoder interface {
	EncodeCatalog(ctx context.Context, c *Catalog) ([]byte, error)
}

// UseCase exporta el catálogo de productos activos con los mismos filtros del listado, sin paginar.
type UseCase struct {
	repo  repository.ProductRepository
	pdf   PDFRenderer
	feed  FeedEncoder
	title string
	now   func() time.Time
}

// NewUseCase construye el caso de uso de exportación.
func NewUseCase(repo repository.ProductRepository, pdf PDFRenderer, feed FeedEncoder, title string) *UseCase {
	return &UseCase{repo: repo, pdf: pdf, feed: feed, title: title, now: time.Now}
}

// Snapshot recorre todas las páginas del listado y arma el catálogo.
func (uc *UseCase) Snapshot(ctx context.Context, q dto.ProductQuery) (*Catalog, error) {
	q.Page, q.Limit = 1, dto.MaxLimit
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	filter := q.Filter()

	c := &Catalog{
		Title:       uc.title,
		GeneratedAt: uc.now(),
		Search:      filter.Search,
		Category:    filter.Category,
	}
	for len(c.Products) < MaxProducts {
		page, total, err := uc.repo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("catálogo: listar productos: %w", err)
		}
		c.Products = append(c.Products, page...)
		filter.Offset += len(page)
		if len(page) == 0 || int64(filter.Offset) >= total {
			break
		}
	}
	if len(c.Products) > MaxProducts {
		c.Products = c.Products[:MaxProducts]
	}
	return c, nil
}

// ExportPDF genera el reporte PDF del catálogo.
func (uc *UseCase) ExportPDF(ctx context.Context, q dto.ProductQuery) ([]byte, error) {
	c, err := uc.Snapshot(ctx, q)
	if err != nil {
		return nil, err
	}
	return uc.pdf.RenderCatalog(ctx, c)
}

// ExportFeed genera el feed XML del catálogo.
func (uc *UseCase) ExportFeed(ctx context.Context, q dto.ProductQuery) ([]byte, error) {
	c, err := uc.Snapshot(ctx, q)
	if err != nil {
		return nil, err
	}
	return uc.feed.EncodeCatalog(ctx, c)
}
