package pagebuilder

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PropsValidator validates widget props against the widget schema.
type PropsValidator interface {
	Validate(cfg WidgetConfig, props Props) error
}

// JSONSchemaValidator compiles widget schemas and validates prop maps. Failures
// are reported as *SchemaValidationError with one entry per offending field.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the provided props satisfy the widget schema.
func (v *JSONSchemaValidator) Validate(cfg WidgetConfig, props Props) error {
	payload, err := normalizeProps(props)
	if err != nil {
		return err
	}
	fields := structuralErrors(cfg.Schema, payload)
	if len(fields) == 0 {
		schema, err := v.schemaFor(cfg)
		if err != nil {
			return err
		}
		if err := schema.Validate(map[string]any(payload)); err != nil {
			var verr *jsonschema.ValidationError
			if !errors.As(err, &verr) {
				return fmt.Errorf("pagebuilder: validate props for %s: %w", cfg.Type, err)
			}
			fields = fieldErrorsFromSchema(verr)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &SchemaValidationError{Type: cfg.Type, Fields: fields}
}

// structuralErrors reports missing required fields and undeclared props by
// name, which jsonschema only reports at the object level.
func structuralErrors(schema WidgetSchema, props Props) []FieldError {
	var fields []FieldError
	for _, f := range schema.Fields {
		if !f.Required {
			continue
		}
		if _, ok := props[f.Name]; !ok {
			fields = append(fields, FieldError{Field: f.Name, Reason: "is required"})
		}
	}
	for key := range props {
		if _, ok := schema.Field(key); !ok {
			fields = append(fields, FieldError{Field: key, Reason: "is not a declared prop"})
		}
	}
	return fields
}

func fieldErrorsFromSchema(root *jsonschema.ValidationError) []FieldError {
	var leaves []*jsonschema.ValidationError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			leaves = append(leaves, e)
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(root)

	seen := make(map[string]struct{}, len(leaves))
	fields := make([]FieldError, 0, len(leaves))
	for _, leaf := range leaves {
		name := fieldFromPointer(leaf.InstanceLocation)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		fields = append(fields, FieldError{Field: name, Reason: leaf.Message})
	}
	return fields
}

// fieldFromPointer maps "/images/0/src" to "images".
func fieldFromPointer(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return "(root)"
	}
	if idx := strings.Index(ptr, "/"); idx >= 0 {
		ptr = ptr[:idx]
	}
	ptr = strings.ReplaceAll(ptr, "~1", "/")
	return strings.ReplaceAll(ptr, "~0", "~")
}

func (v *JSONSchemaValidator) schemaFor(cfg WidgetConfig) (*jsonschema.Schema, error) {
	doc := cfg.Schema.JSONSchema()
	key := string(cfg.Type) + "@" + schemaHash(doc)
	v.mu.RLock()
	schema, ok := v.compiled[key]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("pagebuilder: marshal schema %s: %w", cfg.Type, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(cfg.Type) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("pagebuilder: load schema %s: %w", cfg.Type, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("pagebuilder: compile schema %s: %w", cfg.Type, err)
	}
	v.mu.Lock()
	v.compiled[key] = compiled
	v.mu.Unlock()
	return compiled, nil
}

// schemaHash returns a deterministic hash for a JSON-compatible value.
func schemaHash(value any) string {
	b, err := json.Marshal(value)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
