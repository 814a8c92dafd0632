package repository

import (
	"context"

	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	// Create asigna ID y timestamps; devuelve domain.ErrEmailAlreadyExists si el email está tomado.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
