// Package validation configures go-playground/validator for request DTOs
// and turns its errors into the application's ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "integrador-service/pkg/errors"
)

// New returns a validator that reports fields by their JSON name.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Error converts validator.ValidationErrors into a ValidationError
// describing the first failing field.
func Error(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperrors.NewValidationError("", "Datos inválidos.")
	}

	e := validationErrors[0]
	return apperrors.NewValidationError(e.Field(), Message(e.Field(), e.Tag(), e.Param()))
}

// Message renders the client facing text for a failed rule.
func Message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio.", field)
	case "email":
		return fmt.Sprintf("El campo %s debe ser un correo válido.", field)
	case "max":
		return fmt.Sprintf("El campo %s debe tener como máximo %s caracteres.", field, param)
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres.", field, param)
	default:
		return fmt.Sprintf("El campo %s no es válido.", field)
	}
}

// Var validates a single value and reports failures against field.
func Var(v *validator.Validate, field string, value any, tag string) error {
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return apperrors.NewValidationError(field, Message(field, e.Tag(), e.Param()))
	}
	return apperrors.NewValidationError(field, Message(field, "", ""))
}
