package pagebuilder

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// WidgetManifestDocument models a YAML manifest of declarative widgets.
type WidgetManifestDocument struct {
	Version string           `json:"version" yaml:"version"`
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Package string           `json:"package,omitempty" yaml:"package,omitempty"`
	Widgets []ManifestWidget `json:"widgets" yaml:"widgets"`
	Source  string           `json:"-" yaml:"-"`
}

// ManifestWidget declares a widget whose view is a single element built from props.
type ManifestWidget struct {
	Type                 WidgetType          `json:"type" yaml:"type"`
	Name                 string              `json:"name" yaml:"name"`
	NameLocalized        map[string]string   `json:"name_localized,omitempty" yaml:"name_localized,omitempty"`
	Description          string              `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLocalized map[string]string   `json:"description_localized,omitempty" yaml:"description_localized,omitempty"`
	Category             string              `json:"category,omitempty" yaml:"category,omitempty"`
	Icon                 string              `json:"icon,omitempty" yaml:"icon,omitempty"`
	Version              int                 `json:"version,omitempty" yaml:"version,omitempty"`
	ColSpan              ColSpan             `json:"col_span,omitempty" yaml:"col_span,omitempty"`
	Fields               []FieldSpec         `json:"fields" yaml:"fields"`
	Props                Props               `json:"props,omitempty" yaml:"props,omitempty"`
	View                 ManifestView        `json:"view" yaml:"view"`
	Migrations           []ManifestMigration `json:"migrations,omitempty" yaml:"migrations,omitempty"`
}

// ManifestView maps props onto one HTML element.
type ManifestView struct {
	Tag   string `json:"tag" yaml:"tag"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	// Text names the prop rendered as the element text.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	// Attrs maps attribute names to prop names.
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	// Theme maps CSS properties to theme tokens, emitted as an inline style.
	Theme map[string]string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// ManifestMigration upgrades props from version From to From+1.
type ManifestMigration struct {
	From   int               `json:"from" yaml:"from"`
	Rename map[string]string `json:"rename,omitempty" yaml:"rename,omitempty"`
	Set    Props             `json:"set,omitempty" yaml:"set,omitempty"`
	Remove []string          `json:"remove,omitempty" yaml:"remove,omitempty"`
}

// LoadManifestFile reads a manifest from disk and registers its widgets.
func (r *Registry) LoadManifestFile(path string) (*WidgetManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers every widget of a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *WidgetManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("pagebuilder: manifest document is nil")
	}
	for _, widget := range doc.Widgets {
		cfg, err := widget.Config()
		if err != nil {
			return err
		}
		if err := r.Register(cfg); err != nil {
			return fmt.Errorf("pagebuilder: register widget %s from %s: %w", widget.Type, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*WidgetManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("pagebuilder: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("pagebuilder: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*WidgetManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc WidgetManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("pagebuilder: manifest is empty")
		}
		return nil, fmt.Errorf("pagebuilder: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *WidgetManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("pagebuilder: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[WidgetType]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		if widget.Type == "" {
			return fmt.Errorf("pagebuilder: manifest widget at index %d is missing type", idx)
		}
		if widget.Name == "" {
			return fmt.Errorf("pagebuilder: manifest widget %s missing name", widget.Type)
		}
		if widget.View.Tag == "" {
			return fmt.Errorf("pagebuilder: manifest widget %s missing view.tag", widget.Type)
		}
		if _, exists := seen[widget.Type]; exists {
			return fmt.Errorf("pagebuilder: manifest duplicates widget type %s", widget.Type)
		}
		seen[widget.Type] = struct{}{}
		for _, m := range widget.Migrations {
			if m.From < 1 || m.From >= widget.version() {
				return fmt.Errorf("pagebuilder: manifest widget %s has migration from v%d outside 1..%d",
					widget.Type, m.From, widget.version()-1)
			}
		}
	}
	return nil
}

func (doc *WidgetManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Widgets {
		doc.Widgets[i].Props = yamlProps(doc.Widgets[i].Props)
		for j := range doc.Widgets[i].Migrations {
			doc.Widgets[i].Migrations[j].Set = yamlProps(doc.Widgets[i].Migrations[j].Set)
		}
	}
}

func (w ManifestWidget) version() int {
	if w.Version <= 0 {
		return 1
	}
	return w.Version
}

// Config converts the declaration into a registrable WidgetConfig.
func (w ManifestWidget) Config() (WidgetConfig, error) {
	cfg := WidgetConfig{
		Type:                 w.Type,
		DisplayName:          w.Name,
		DisplayNameLocalized: w.NameLocalized,
		Description:          w.Description,
		DescriptionLocalized: w.DescriptionLocalized,
		Category:             w.Category,
		Icon:                 w.Icon,
		Version:              w.version(),
		DefaultColSpan:       w.ColSpan,
		Schema:               WidgetSchema{Fields: w.Fields},
		DefaultProps:         w.Props,
		View:                 manifestView(w.View),
	}
	if len(w.Migrations) > 0 {
		steps := make(map[int]func(Props) Props, len(w.Migrations))
		for _, m := range w.Migrations {
			if _, dup := steps[m.From]; dup {
				return WidgetConfig{}, fmt.Errorf("pagebuilder: manifest widget %s declares migration from v%d twice", w.Type, m.From)
			}
			steps[m.From] = m.apply
		}
		cfg.Migrate = StepMigrations(steps)
	}
	return cfg, nil
}

func (m ManifestMigration) apply(props Props) Props {
	out := props.Clone()
	if out == nil {
		out = Props{}
	}
	for from, to := range m.Rename {
		if value, ok := out[from]; ok {
			delete(out, from)
			out[to] = value
		}
	}
	for _, key := range m.Remove {
		delete(out, key)
	}
	for key, value := range m.Set.Clone() {
		if _, ok := out[key]; !ok {
			out[key] = value
		}
	}
	return out
}

func manifestView(view ManifestView) ViewFunc {
	return func(_ context.Context, in ViewInput) (Node, error) {
		node := Node{
			Component: string(in.Instance.Type),
			Tag:       view.Tag,
			Attrs:     map[string]string{},
			Data:      map[string]any(in.Props.Clone()),
		}
		if view.Class != "" {
			node.Attrs["class"] = view.Class
		}
		for attr, prop := range view.Attrs {
			if value, ok := in.Props[prop]; ok && value != nil {
				node.Attrs[attr] = fmt.Sprint(value)
			}
		}
		if view.Text != "" {
			if value, ok := in.Props[view.Text]; ok && value != nil {
				node.Text = fmt.Sprint(value)
			}
		}
		if len(view.Theme) > 0 {
			props := make([]string, 0, len(view.Theme))
			for prop := range view.Theme {
				props = append(props, prop)
			}
			sort.Strings(props)
			var style []string
			for _, prop := range props {
				value := in.Theme.Token(view.Theme[prop], "")
				if value == "" {
					continue
				}
				style = append(style, prop+": "+value+";")
			}
			if len(style) > 0 {
				node.Attrs["style"] = strings.Join(style, " ")
			}
		}
		return node, nil
	}
}

// yamlProps converts yaml.v3 decoded values into JSON-shaped props.
func yamlProps(props Props) Props {
	if props == nil {
		return nil
	}
	out := make(Props, len(props))
	for key, value := range props {
		out[key] = yamlValue(value)
	}
	return out
}

func yamlValue(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case map[string]any:
		return map[string]any(yamlProps(Props(v)))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = yamlValue(item)
		}
		return out
	}
	return value
}
