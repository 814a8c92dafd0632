package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
	"github.com/jhoicas/hortti-inventory/internal/domain/repository"
)

func TestBuildListQuery(t *testing.T) {
	t.Run("todos los filtros", func(t *testing.T) {
		countSQL, listSQL, args := buildListQuery(repository.ProductFilter{
			Search:     "50%_off",
			Category:   entity.CategoryFruit,
			ActiveOnly: true,
			SortBy:     repository.SortByPrice,
			Order:      "asc",
			Offset:     20,
			Limit:      10,
		})

		assert.Equal(t, `SELECT COUNT(*) FROM products WHERE active = TRUE AND category = $1 AND name ILIKE $2 ESCAPE '\'`, countSQL)
		assert.Contains(t, listSQL, `WHERE active = TRUE AND category = $1 AND name ILIKE $2 ESCAPE '\'`)
		assert.Contains(t, listSQL, "ORDER BY price ASC, id ASC LIMIT 10 OFFSET 20")
		assert.Equal(t, []any{"fruit", `%50\%\_off%`}, args)
	})

	t.Run("sin filtros usa createdAt DESC", func(t *testing.T) {
		countSQL, listSQL, args := buildListQuery(repository.ProductFilter{SortBy: "; DROP TABLE products"})
		assert.Equal(t, "SELECT COUNT(*) FROM products", countSQL)
		assert.Contains(t, listSQL, "ORDER BY created_at DESC, id DESC")
		assert.NotContains(t, listSQL, "LIMIT")
		assert.Empty(t, args)
	})

	t.Run("orden por nombre sin distinguir mayúsculas", func(t *testing.T) {
		_, listSQL, _ := buildListQuery(repository.ProductFilter{SortBy: repository.SortByName, Order: repository.OrderDesc})
		assert.Contains(t, listSQL, "ORDER BY lower(name) DESC, id DESC")
	})
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%tomate%", containsPattern("tomate"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
