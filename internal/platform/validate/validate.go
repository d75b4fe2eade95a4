// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Form handlers run the validator before any backend call; a failed check
// blocks the submission and is rendered next to the offending field.
package validate

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/realty/internal/platform/apperr"
)

// ErrInvalidForm is returned when the request form cannot be parsed.
var ErrInvalidForm = apperr.ValidationError("Formulario inválido")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "Este campo es obligatorio")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Máximo %d caracteres", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Mínimo %d caracteres", min))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Debe estar entre %d y %d", min, max))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Debe ser un correo válido")
	}
	return v
}

// Number fails if a non-empty value is not a decimal number.
func (v *Validator) Number(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		v.add(field, "Debe ser un número")
	}
	return v
}

// Integer fails if a non-empty value is not a whole number.
func (v *Validator) Integer(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v
	}
	if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
		v.add(field, "Debe ser un número entero")
	}
	return v
}

// NonNegative fails if a numeric value is below zero. Non-numeric values
// are left to [Validator.Number].
func (v *Validator) NonNegative(field, value string) *Validator {
	if number, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && number < 0 {
		v.add(field, "No puede ser negativo")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Debe ser uno de: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("maxPrice", maxPrice < minPrice, "Debe ser mayor que el precio mínimo")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// It is the only output method; call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Revisa los campos marcados", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Fields returns the failures keyed by field, first message wins.
func (v *Validator) Fields() map[string]string {
	fields := make(map[string]string, len(v.errs))
	for _, fieldError := range v.errs {
		if _, found := fields[fieldError.Field]; !found {
			fields[fieldError.Field] = fieldError.Message
		}
	}
	return fields
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Revisa los campos marcados", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
