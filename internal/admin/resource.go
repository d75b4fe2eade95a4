// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/realty/internal/platform/validate"
	"github.com/taibuivan/realty/pkg/convert"
	"github.com/taibuivan/realty/pkg/query"
	"github.com/taibuivan/realty/pkg/slice"
)

// # Resource Definition

// Store is the backend collection a [Resource] manages.
// *resource.Service[T] satisfies it.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, payload any) (*T, error)
	Update(ctx context.Context, id string, payload any) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Resource describes one admin section. It is pure data: the CRUD
// behaviour lives in [Module].
type Resource[T any] struct {
	// Path is the mount point, e.g. "/admin/cities".
	Path string
	// Title is the plural heading, Singular names one record.
	Title    string
	Singular string
	// ModuleName is the grant required to open the section.
	ModuleName string

	Store   Store[T]
	Columns []Column[T]
	Fields  []Field

	// ID and Label identify a record in links and confirmations.
	ID    func(T) string
	Label func(T) string

	// Check adds resource-specific validation after the field rules.
	Check func(v *validate.Validator, values url.Values, editing bool)

	// RowLinks are extra per-row actions (e.g. the property image gallery).
	RowLinks []RowLink

	// Extend adds routes under the section path.
	Extend func(router chi.Router)
}

// Column is one list column.
type Column[T any] struct {
	Label string
	Value func(T) string
}

// RowLink points at Path/{id}{Suffix}.
type RowLink struct {
	Label  string
	Suffix string
}

// # Form Fields

// Kind is the input control of a [Field].
type Kind string

const (
	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindEmail       Kind = "email"
	KindPassword    Kind = "password"
	KindNumber      Kind = "number"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
	KindCheckbox    Kind = "checkbox"
)

// Option is one choice of a select.
type Option struct {
	Value string
	Label string
}

// OptionSource loads the choices of a select at render time.
type OptionSource func(ctx context.Context) ([]Option, error)

// Field is one form input. Name is both the form key and the JSON key
// sent to the backend.
type Field struct {
	Name  string
	Label string
	Kind  Kind
	Help  string

	Required bool
	// RequiredOnCreate applies only to new records (passwords).
	RequiredOnCreate bool
	MaxLen           int
	// Integer restricts a number field to whole numbers.
	Integer bool

	Options OptionSource

	// Source is the dotted path read from the backend record when it
	// differs from Name, e.g. "country.id" for "countryId".
	Source string
}

// OptionsOf adapts a list call into an [OptionSource].
func OptionsOf[T any](list func(ctx context.Context) ([]T, error), option func(T) Option) OptionSource {
	return func(ctx context.Context) ([]Option, error) {
		items, err := list(ctx)
		if err != nil {
			return nil, err
		}
		return slice.Map(items, option), nil
	}
}

// StaticOptions returns a source with fixed values used as their own labels.
func StaticOptions(values ...string) OptionSource {
	options := slice.Map(values, func(value string) Option { return Option{Value: value, Label: value} })
	return func(context.Context) ([]Option, error) { return options, nil }
}

// # Validation

// validateForm runs the field rules, then the resource check.
func validateForm(fields []Field, values url.Values, editing bool, check func(*validate.Validator, url.Values, bool)) *validate.Validator {
	validator := &validate.Validator{}

	for _, field := range fields {
		value := strings.TrimSpace(values.Get(field.Name))

		required := field.Required || (field.RequiredOnCreate && !editing)
		if required {
			if field.Kind == KindMultiSelect {
				validator.Custom(field.Name, len(values[field.Name]) == 0, "Selecciona al menos una opción")
			} else {
				validator.Required(field.Name, value)
			}
		}

		if value == "" {
			continue
		}

		if field.MaxLen > 0 {
			validator.MaxLen(field.Name, value, field.MaxLen)
		}

		switch field.Kind {
		case KindEmail:
			validator.Email(field.Name, value)
		case KindNumber:
			if field.Integer {
				validator.Integer(field.Name, value)
			} else {
				validator.Number(field.Name, value)
			}
			validator.NonNegative(field.Name, value)
		case KindSelect:
			if field.Options != nil && field.Source != "" {
				validator.Integer(field.Name, value)
			}
		}
	}

	if check != nil {
		check(validator, values, editing)
	}
	return validator
}

// # Form ⇄ Payload

// buildPayload converts submitted values into the JSON body for the
// backend, typed by field kind. Empty optional values are left out.
func buildPayload(fields []Field, values url.Values) map[string]any {
	payload := make(map[string]any, len(fields))

	for _, field := range fields {
		value := strings.TrimSpace(values.Get(field.Name))

		switch field.Kind {
		case KindCheckbox:
			payload[field.Name] = convert.ToBool(value)
		case KindMultiSelect:
			ids := query.IntSlice(values[field.Name])
			if ids == nil {
				ids = []int{}
			}
			payload[field.Name] = ids
		case KindNumber:
			if value == "" {
				continue
			}
			if field.Integer {
				payload[field.Name] = convert.ToInt(value)
			} else {
				payload[field.Name] = convert.ToFloat64(value)
			}
		case KindSelect:
			if value == "" {
				continue
			}
			// Relation selects carry numeric ids; fixed vocabularies stay strings.
			if id, err := strconv.Atoi(value); err == nil && field.Source != "" {
				payload[field.Name] = id
			} else {
				payload[field.Name] = value
			}
		case KindPassword:
			if value == "" {
				continue
			}
			payload[field.Name] = value
		default:
			payload[field.Name] = value
		}
	}
	return payload
}

// recordValues reads the form values of an existing record through its
// JSON encoding, so every resource shares one mapping.
func recordValues[T any](fields []Field, record T) url.Values {
	values := url.Values{}

	raw, err := json.Marshal(record)
	if err != nil {
		return values
	}
	var document map[string]any
	if err := json.Unmarshal(raw, &document); err != nil {
		return values
	}

	for _, field := range fields {
		if field.Kind == KindPassword {
			continue
		}

		found := lookup(document, field.Name)
		if isEmpty(found) && field.Source != "" {
			found = lookup(document, field.Source)
		}
		values[field.Name] = formatValue(found)
	}
	return values
}

// lookup follows a dotted path; lists are traversed element-wise.
func lookup(node any, path string) any {
	if path == "" {
		return node
	}
	head, rest, _ := strings.Cut(path, ".")

	switch typed := node.(type) {
	case map[string]any:
		return lookup(typed[head], rest)
	case []any:
		collected := make([]any, 0, len(typed))
		for _, element := range typed {
			if value := lookup(element, path); value != nil {
				collected = append(collected, value)
			}
		}
		return collected
	default:
		return nil
	}
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case []any:
		return len(typed) == 0
	case string:
		return typed == ""
	case float64:
		return typed == 0
	default:
		return false
	}
}

func formatValue(value any) []string {
	switch typed := value.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{typed}
	case bool:
		return []string{strconv.FormatBool(typed)}
	case float64:
		return []string{strconv.FormatFloat(typed, 'f', -1, 64)}
	case []any:
		result := make([]string, 0, len(typed))
		for _, element := range typed {
			result = append(result, formatValue(element)...)
		}
		return result
	default:
		return []string{""}
	}
}
