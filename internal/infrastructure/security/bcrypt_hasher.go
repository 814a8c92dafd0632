package security

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/hortti-inventory/internal/application/ports"
)

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

// DefaultCost costo usado en producción.
const DefaultCost = bcrypt.DefaultCost

// BcryptHasher implementa PasswordHasher con bcrypt.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     string
}

// NewBcryptHasher construye el hasher; cost fuera de rango usa bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash genera el hash bcrypt (incluye sal aleatoria).
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compara en tiempo constante.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// DummyHash se calcula una sola vez con el mismo costo que los hashes reales.
func (h *BcryptHasher) DummyHash() string {
	h.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("hortti-dummy-password"), h.cost)
		if err == nil {
			h.dummy = string(hash)
		}
	})
	return h.dummy
}
