package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas). Cada error de negocio
// envuelve uno de los cuatro tipos base para que la capa HTTP pueda mapearlo con errors.Is.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrValidation   = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnauthorized = errors.New("no autorizado")

	ErrEmailAlreadyExists = fmt.Errorf("el email ya está registrado: %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("credenciales inválidas: %w", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("token inválido o expirado: %w", ErrUnauthorized)
)

// NotFoundError indica que el recurso con el ID pedido no existe.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s #%d no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// FieldViolation describe una regla incumplida por un campo de entrada.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError agrega todas las violaciones detectadas en una entrada.
type ValidationError struct {
	Violations []FieldViolation
}

// Add registra una violación.
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

// Has indica si el campo ya tiene alguna violación registrada.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// OrNil devuelve nil si no hay violaciones; así el llamador puede retornar directamente.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "entrada inválida: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
