package pagebuilder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownWidgetType   = errors.New("pagebuilder: unknown widget type")
	ErrNotFound            = errors.New("pagebuilder: not found")
	ErrSchemaValidation    = errors.New("pagebuilder: schema validation failed")
	ErrPageNotPublished    = errors.New("pagebuilder: page is not published")
	ErrRevisionConflict    = errors.New("pagebuilder: page revision conflict")
	ErrDuplicateWidgetType = errors.New("pagebuilder: widget type already registered")
	ErrSlugTaken           = errors.New("pagebuilder: slug already used by another page")
)

// UnknownWidgetTypeError is returned when an operation names an unregistered type.
type UnknownWidgetTypeError struct {
	Type WidgetType
}

func (e *UnknownWidgetTypeError) Error() string {
	return fmt.Sprintf("pagebuilder: unknown widget type %q", e.Type)
}

func (e *UnknownWidgetTypeError) Unwrap() error { return ErrUnknownWidgetType }

// NotFoundError names the missing node kind (page, section, row, widget) and id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pagebuilder: %s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// SchemaValidationError carries every invalid prop for a widget.
type SchemaValidationError struct {
	Type   WidgetType   `json:"type"`
	Fields []FieldError `json:"fields"`
}

func (e *SchemaValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return fmt.Sprintf("pagebuilder: props for %s failed validation: %s", e.Type, strings.Join(parts, "; "))
}

func (e *SchemaValidationError) Unwrap() error { return ErrSchemaValidation }

// FieldNames returns the sorted, de-duplicated names of the invalid fields.
func (e *SchemaValidationError) FieldNames() []string {
	seen := make(map[string]struct{}, len(e.Fields))
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := seen[f.Field]; ok {
			continue
		}
		seen[f.Field] = struct{}{}
		names = append(names, f.Field)
	}
	sort.Strings(names)
	return names
}

// FieldErrorsFor extracts field errors from err, if it is a validation failure.
func FieldErrorsFor(err error) []FieldError {
	var verr *SchemaValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
