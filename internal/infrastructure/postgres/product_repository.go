package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hortti-inventory/internal/domain"
	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
	"github.com/jhoicas/hortti-inventory/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, category, price, stock, COALESCE(image_url, ''), COALESCE(description, ''), active, created_at, updated_at`

// Columnas de orden permitidas (nunca se interpola texto del usuario).
var sortColumns = map[string]string{
	repository.SortByName:      "lower(name)",
	repository.SortByPrice:     "price",
	repository.SortByCreatedAt: "created_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y asigna ID y timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (name, category, price, stock, image_url, description, active)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		p.Name, string(p.Category), p.Price, p.Stock, p.ImageURL, p.Description, p.Active,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID sin filtrar por active.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	p, err := pgx.CollectOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update persiste todos los campos mutables.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, price = $4, stock = $5,
		    image_url = NULLIF($6, ''), description = NULLIF($7, ''), active = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		p.ID, p.Name, string(p.Category), p.Price, p.Stock, p.ImageURL, p.Description, p.Active,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.NotFoundError{Resource: "producto", ID: p.ID}
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina el registro definitivamente.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return nil
}

// List aplica filtros, orden y ventana; devuelve además el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int64, error) {
	countSQL, listSQL, args := buildListQuery(f)

	var total int64
	if err := r.q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.q.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	list, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, 0, fmt.Errorf("scan products: %w", err)
	}
	return list, total, nil
}

// buildListQuery arma el conteo y la consulta paginada con argumentos posicionales.
// El orden secundario por id hace estable la paginación cuando hay empates.
func buildListQuery(f repository.ProductFilter) (countSQL, listSQL string, args []any) {
	var where []string
	if f.ActiveOnly {
		where = append(where, "active = TRUE")
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		where = append(where, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[repository.SortByCreatedAt]
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, repository.OrderAsc) {
		dir = "ASC"
	}

	countSQL = "SELECT COUNT(*) FROM products" + clause
	listSQL = fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s %s, id %s", productColumns, clause, col, dir, dir)
	if f.Limit > 0 {
		listSQL += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	if f.Offset > 0 {
		listSQL += fmt.Sprintf(" OFFSET %d", f.Offset)
	}
	return countSQL, listSQL, args
}

func scanProduct(row pgx.CollectableRow) (*entity.Product, error) {
	var p entity.Product
	var category string
	err := row.Scan(
		&p.ID, &p.Name, &category, &p.Price, &p.Stock, &p.ImageURL, &p.Description, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = entity.Category(category)
	return &p, nil
}
