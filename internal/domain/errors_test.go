package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/hortti-inventory/internal/domain"
)

func TestErrores_EnvuelvenTipoBase(t *testing.T) {
	assert.ErrorIs(t, domain.ErrEmailAlreadyExists, domain.ErrConflict)
	assert.ErrorIs(t, domain.ErrInvalidCredentials, domain.ErrUnauthorized)
	assert.ErrorIs(t, domain.ErrInvalidToken, domain.ErrUnauthorized)
	assert.False(t, errors.Is(domain.ErrInvalidCredentials, domain.ErrConflict))
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("cargar: %w", &domain.NotFoundError{Resource: "producto", ID: 12})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	var nf *domain.NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(12), nf.ID)
	assert.Equal(t, "cargar: producto #12 no encontrado", err.Error())
}

func TestValidationError(t *testing.T) {
	var v domain.ValidationError
	assert.NoError(t, v.OrNil())

	v.Add("price", "no puede ser negativo")
	v.Add("name", "es obligatorio")

	err := v.OrNil()
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, v.Has("price"))
	assert.False(t, v.Has("stock"))
	assert.Equal(t, "entrada inválida: price: no puede ser negativo; name: es obligatorio", err.Error())
}
