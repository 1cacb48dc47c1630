package pagebuilder

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// FieldType is the semantic type of a widget prop.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldInteger FieldType = "integer"
	FieldBoolean FieldType = "boolean"
	FieldEnum    FieldType = "enum"
	FieldArray   FieldType = "array"
	FieldObject  FieldType = "object"
)

func (t FieldType) known() bool {
	switch t {
	case FieldString, FieldNumber, FieldInteger, FieldBoolean, FieldEnum, FieldArray, FieldObject:
		return true
	}
	return false
}

// FieldSpec declares one configurable prop.
type FieldSpec struct {
	Name      string    `json:"name" yaml:"name"`
	Type      FieldType `json:"type" yaml:"type"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
	Help      string    `json:"help,omitempty" yaml:"help,omitempty"`
	Required  bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Default   any       `json:"default,omitempty" yaml:"default,omitempty"`
	Enum      []string  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Min       *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int      `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength *int      `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Items     FieldType `json:"items,omitempty" yaml:"items,omitempty"`
}

// WidgetSchema is the closed prop contract of a widget type. It is the only
// place defaults live: editors and views read resolved props from it.
type WidgetSchema struct {
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

// Field looks up a field spec by name.
func (s WidgetSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Defaults returns a fresh props value holding every declared default.
func (s WidgetSchema) Defaults() Props {
	out := Props{}
	for _, f := range s.Fields {
		if f.Default == nil {
			continue
		}
		out[f.Name] = deepcopy.Copy(f.Default)
	}
	return out
}

// Resolve overlays props on the schema defaults. Fields introduced after an
// instance was saved resolve to their defaults.
func (s WidgetSchema) Resolve(props Props) Props {
	out := s.Defaults()
	for key, value := range props.Clone() {
		out[key] = value
	}
	return out
}

// Check reports malformed schemas (missing names, duplicates, empty enums).
func (s WidgetSchema) Check() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for idx, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("pagebuilder: schema field at index %d is missing a name", idx)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("pagebuilder: schema declares field %s twice", f.Name)
		}
		seen[f.Name] = struct{}{}
		if !f.Type.known() {
			return fmt.Errorf("pagebuilder: schema field %s has unknown type %q", f.Name, f.Type)
		}
		if f.Type == FieldEnum && len(f.Enum) == 0 {
			return fmt.Errorf("pagebuilder: enum field %s declares no values", f.Name)
		}
		if f.Items != "" && !f.Items.known() {
			return fmt.Errorf("pagebuilder: schema field %s has unknown item type %q", f.Name, f.Items)
		}
	}
	return nil
}

// JSONSchema renders the schema as a JSON Schema document. Unknown props are
// rejected.
func (s WidgetSchema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.Fields))
	required := make([]string, 0)
	for _, f := range s.Fields {
		properties[f.Name] = f.jsonSchema()
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func (f FieldSpec) jsonSchema() map[string]any {
	out := map[string]any{}
	switch f.Type {
	case FieldEnum:
		out["type"] = "string"
		out["enum"] = f.Enum
	case FieldArray:
		out["type"] = "array"
		if f.Items != "" {
			out["items"] = FieldSpec{Type: f.Items}.jsonSchema()
		}
	default:
		out["type"] = string(f.Type)
	}
	if len(f.Enum) > 0 && f.Type == FieldString {
		out["enum"] = f.Enum
	}
	if f.Min != nil {
		out["minimum"] = *f.Min
	}
	if f.Max != nil {
		out["maximum"] = *f.Max
	}
	if f.MinLength != nil {
		if f.Type == FieldArray {
			out["minItems"] = *f.MinLength
		} else {
			out["minLength"] = *f.MinLength
		}
	}
	if f.MaxLength != nil {
		if f.Type == FieldArray {
			out["maxItems"] = *f.MaxLength
		} else {
			out["maxLength"] = *f.MaxLength
		}
	}
	return out
}

// Float returns a pointer to v, for numeric bounds declared inline.
func Float(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
