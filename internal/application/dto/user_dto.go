package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/hortti-inventory/internal/domain"
)

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
	Name     string `json:"name" validate:"required,min=3,max=255"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// MaxPasswordBytes es el límite de bcrypt; min/max del tag cuentan caracteres, no bytes.
const MaxPasswordBytes = 72

// Validate normaliza el email y devuelve todas las violaciones encontradas.
func (r *RegisterRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	var verr domain.ValidationError
	validateStruct(r, &verr)
	if len(r.Password) > MaxPasswordBytes && !verr.Has("password") {
		verr.Add("password", fmt.Sprintf("no puede superar %d bytes", MaxPasswordBytes))
	}
	return verr.OrNil()
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate normaliza el email y valida presencia de credenciales.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	var verr domain.ValidationError
	validateStruct(r, &verr)
	return verr.OrNil()
}

// NormalizeEmail recorta espacios y pasa a minúsculas; el email es único sin distinguir mayúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse salida de registro y login: usuario más token JWT.
type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// ProfileResponse salida de /api/auth/me.
type ProfileResponse struct {
	User UserResponse `json:"user"`
}

// TokenClaimsResponse claims expuestos por /api/auth/verify.
type TokenClaimsResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// VerifyResponse salida de /api/auth/verify.
type VerifyResponse struct {
	Valid bool                `json:"valid"`
	User  TokenClaimsResponse `json:"user"`
}
