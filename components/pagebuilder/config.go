package pagebuilder

import (
	"context"
	"sort"
)

// EditorFunc builds the property form for one widget instance.
type EditorFunc func(in EditorInput) EditorForm

// ViewFunc renders a widget instance into a render tree. Views must be pure
// and must render with an empty theme.
type ViewFunc func(ctx context.Context, in ViewInput) (Node, error)

// MigrateFunc brings an instance forward to targetVersion. It receives a
// private copy and returns a new instance whose Version equals targetVersion.
type MigrateFunc func(instance WidgetInstance, targetVersion int) (WidgetInstance, error)

// WidgetConfig bundles everything the builder knows about one widget type.
// Entries are created once at startup and never mutated after registration.
type WidgetConfig struct {
	Type                 WidgetType
	DisplayName          string
	DisplayNameLocalized map[string]string
	Description          string
	DescriptionLocalized map[string]string
	Category             string
	Icon                 string
	Version              int
	DefaultColSpan       ColSpan
	Schema               WidgetSchema
	// DefaultProps overrides schema defaults for new instances. Optional.
	DefaultProps Props
	Editor       EditorFunc
	View         ViewFunc
	Migrate      MigrateFunc
}

// CurrentVersion is the schema version new instances are created at.
func (c WidgetConfig) CurrentVersion() int {
	if c.Version <= 0 {
		return 1
	}
	return c.Version
}

// InitialProps returns a fresh deep copy of the props a new instance starts with.
func (c WidgetConfig) InitialProps() Props {
	return c.Schema.Resolve(c.DefaultProps)
}

// NewInstance creates an instance at the current version with default props.
func (c WidgetConfig) NewInstance(id string) WidgetInstance {
	return WidgetInstance{
		ID:         id,
		Type:       c.Type,
		Version:    c.CurrentVersion(),
		Props:      c.InitialProps(),
		Visibility: DefaultVisibility(),
	}
}

// EffectiveColSpan resolves the instance override, then the type default.
func (c WidgetConfig) EffectiveColSpan(instance WidgetInstance) ColSpan {
	if instance.ColSpan != nil && !instance.ColSpan.isZero() {
		return *instance.ColSpan
	}
	if !c.DefaultColSpan.isZero() {
		return c.DefaultColSpan
	}
	return FullWidth()
}

// EditorInput is handed to an EditorFunc.
type EditorInput struct {
	Config   WidgetConfig
	Instance WidgetInstance
	Errors   []FieldError
	Locale   string
}

// EditorForm describes the property editor for a widget; hosts render it.
type EditorForm struct {
	WidgetID string      `json:"widget_id"`
	Type     WidgetType  `json:"type"`
	Title    string      `json:"title"`
	Fields   []FormField `json:"fields"`
}

// FormField is a single input of an EditorForm.
type FormField struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Help     string    `json:"help,omitempty"`
	Value    any       `json:"value"`
	Default  any       `json:"default,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// DefaultEditor derives a form from the widget schema. Values come from the
// resolved props so fields added by newer versions show their defaults.
func DefaultEditor(in EditorInput) EditorForm {
	resolved := in.Config.Schema.Resolve(in.Instance.Props)
	errs := make(map[string]string, len(in.Errors))
	for _, fe := range in.Errors {
		if _, ok := errs[fe.Field]; !ok {
			errs[fe.Field] = fe.Reason
		}
	}
	form := EditorForm{
		WidgetID: in.Instance.ID,
		Type:     in.Config.Type,
		Title:    in.Config.NameForLocale(in.Locale),
		Fields:   make([]FormField, 0, len(in.Config.Schema.Fields)),
	}
	for _, spec := range in.Config.Schema.Fields {
		label := spec.Label
		if label == "" {
			label = spec.Name
		}
		form.Fields = append(form.Fields, FormField{
			Name:     spec.Name,
			Label:    label,
			Type:     spec.Type,
			Required: spec.Required,
			Options:  append([]string(nil), spec.Enum...),
			Help:     spec.Help,
			Value:    resolved[spec.Name],
			Default:  spec.Default,
			Error:    errs[spec.Name],
		})
	}
	return form
}

// ViewInput is handed to a ViewFunc. Props are already resolved against the
// schema defaults.
type ViewInput struct {
	Instance   WidgetInstance
	Schema     WidgetSchema
	Props      Props
	Visibility Visibility
	ColSpan    ColSpan
	Theme      ThemeTokens
}

// String reads a string prop. Missing or mistyped values fall back to the
// schema default.
func (in ViewInput) String(name string) string {
	return in.Props.String(name, in.fallback(name).String(name, ""))
}

// Int reads an integer prop with the schema default as fallback.
func (in ViewInput) Int(name string) int {
	return in.Props.Int(name, in.fallback(name).Int(name, 0))
}

// Bool reads a boolean prop with the schema default as fallback.
func (in ViewInput) Bool(name string) bool {
	return in.Props.Bool(name, in.fallback(name).Bool(name, false))
}

func (in ViewInput) fallback(name string) Props {
	field, _ := in.Schema.Field(name)
	return Props{name: field.Default}
}

// Node is a host-agnostic render tree. Tag and Attrs are HTML hints; Data
// echoes structured values for non-HTML hosts.
type Node struct {
	Component string            `json:"component"`
	Tag       string            `json:"tag,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Text      string            `json:"text,omitempty"`
	Data      map[string]any    `json:"data,omitempty"`
	Children  []Node            `json:"children,omitempty"`
}

// StepMigrations builds a MigrateFunc from per-version steps. steps[v]
// transforms props from version v to v+1; missing steps are no-ops.
func StepMigrations(steps map[int]func(Props) Props) MigrateFunc {
	return func(instance WidgetInstance, targetVersion int) (WidgetInstance, error) {
		out := instance.Clone()
		if out.Version >= targetVersion {
			return out, nil
		}
		versions := make([]int, 0, len(steps))
		for v := range steps {
			versions = append(versions, v)
		}
		sort.Ints(versions)
		for _, v := range versions {
			if v < out.Version || v >= targetVersion {
				continue
			}
			if out.Props == nil {
				out.Props = Props{}
			}
			out.Props = steps[v](out.Props)
		}
		out.Version = targetVersion
		return out, nil
	}
}
