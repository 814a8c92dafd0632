package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hortti-inventory/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar los campos con su nombre JSON (o query) en lugar del nombre Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// validateStruct ejecuta las reglas `validate:` y acumula las violaciones en verr.
func validateStruct(s any, verr *domain.ValidationError) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("body", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), messageFor(fe))
	}
}

func messageFor(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "min":
		if isText {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("debe tener como máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "no cumple la regla " + fe.Tag()
	}
}

// MaxPrice es el mayor precio representable en la columna NUMERIC(10,2).
var MaxPrice = decimal.RequireFromString("99999999.99")

// checkPrice valida precio entre 0 y MaxPrice con máximo dos decimales.
func checkPrice(field string, price decimal.Decimal, verr *domain.ValidationError) {
	if price.IsNegative() {
		verr.Add(field, "no puede ser negativo")
	}
	if price.GreaterThan(MaxPrice) {
		verr.Add(field, "no puede superar "+MaxPrice.StringFixed(2))
	}
	if !price.Equal(price.Round(2)) {
		verr.Add(field, "debe tener como máximo 2 decimales")
	}
}

// ToFieldErrors convierte un ValidationError en el detalle de la respuesta HTTP.
func ToFieldErrors(verr *domain.ValidationError) []FieldError {
	if verr == nil {
		return nil
	}
	out := make([]FieldError, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		out = append(out, FieldError{Field: v.Field, Message: v.Message})
	}
	return out
}
