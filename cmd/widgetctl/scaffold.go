package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type scaffoldCmd struct {
	Type         string   `required:"" help:"Widget type, normalized to kebab-case (e.g. promo-banner)."`
	Name         string   `required:"" help:"Display name shown in the palette."`
	Description  string   `help:"One-line description used in the palette."`
	Category     string   `default:"custom" help:"Palette category (basic, media, commerce, layout, ...)."`
	Icon         string   `help:"Icon identifier for the palette."`
	ManifestPath string   `required:"" type:"path" help:"Path to the widget manifest YAML file to create or update."`
	Field        []string `help:"Prop field as name:type[:default] (repeatable). Types: string, number, integer, boolean."`
	Tag          string   `default:"div" help:"HTML tag produced by the manifest view."`
	Text         string   `help:"Prop rendered as the element text (defaults to the first string field)."`
	StubOut      string   `help:"Also write a Go widget stub to this path."`
	Overwrite    bool     `help:"Replace an existing manifest entry or stub."`
}

func (cmd *scaffoldCmd) Run(_ context.Context, g *globals) error {
	widgetType := pagebuilder.WidgetType(strcase.ToKebab(strings.TrimSpace(cmd.Type)))
	if widgetType == "" {
		return errors.New("widgetctl: widget type is required")
	}
	fields, err := parseFields(cmd.Field)
	if err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("widgetctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}

	entry := pagebuilder.ManifestWidget{
		Type:        widgetType,
		Name:        cmd.Name,
		Description: cmd.Description,
		Category:    cmd.Category,
		Icon:        cmd.Icon,
		Version:     1,
		Fields:      fields,
		View: pagebuilder.ManifestView{
			Tag:   cmd.Tag,
			Class: "pb-" + string(widgetType),
			Text:  textField(cmd.Text, fields),
		},
	}
	if err := upsertWidget(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.StubOut == "" {
		fmt.Fprintf(g.out, "✓ Added %s to %s\n", widgetType, manifestPath)
		return nil
	}
	if err := writeWidgetStub(cmd.StubOut, entry, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(g.out, "✓ Added %s to %s and generated %s\n", widgetType, manifestPath, cmd.StubOut)
	return nil
}

// parseFields turns name:type[:default] flags into field specs.
func parseFields(raw []string) ([]pagebuilder.FieldSpec, error) {
	fields := make([]pagebuilder.FieldSpec, 0, len(raw))
	for _, item := range raw {
		parts := strings.SplitN(item, ":", 3)
		if len(parts) < 2 || parts[0] == "" {
			return nil, fmt.Errorf("widgetctl: field %q must be name:type[:default]", item)
		}
		field := pagebuilder.FieldSpec{
			Name:  strcase.ToCamel(parts[0]),
			Type:  pagebuilder.FieldType(parts[1]),
			Label: strcase.ToCase(parts[0], strcase.TitleCase, ' '),
		}
		var raw string
		if len(parts) == 3 {
			raw = parts[2]
		}
		value, err := fieldDefault(field.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("widgetctl: field %s: %w", field.Name, err)
		}
		field.Default = value
		fields = append(fields, field)
	}
	return fields, nil
}

func fieldDefault(t pagebuilder.FieldType, raw string) (any, error) {
	switch t {
	case pagebuilder.FieldString:
		return raw, nil
	case pagebuilder.FieldBoolean:
		if raw == "" {
			return false, nil
		}
		return strconv.ParseBool(raw)
	case pagebuilder.FieldNumber, pagebuilder.FieldInteger:
		if raw == "" {
			return float64(0), nil
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		if t == pagebuilder.FieldInteger && value != float64(int64(value)) {
			return nil, fmt.Errorf("default %s is not an integer", raw)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unsupported field type %q", t)
	}
}

func textField(explicit string, fields []pagebuilder.FieldSpec) string {
	if explicit != "" {
		return strcase.ToCamel(explicit)
	}
	for _, f := range fields {
		if f.Type == pagebuilder.FieldString {
			return f.Name
		}
	}
	return ""
}

func upsertWidget(doc *pagebuilder.WidgetManifestDocument, entry pagebuilder.ManifestWidget, overwrite bool) error {
	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Type != entry.Type {
			continue
		}
		if !overwrite {
			return fmt.Errorf("widgetctl: manifest already defines widget %s (use --overwrite to replace)", entry.Type)
		}
		doc.Widgets[idx] = entry
		replaced = true
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Type < doc.Widgets[j].Type
	})
	return nil
}

func loadOrInitManifest(path string) (*pagebuilder.WidgetManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &pagebuilder.WidgetManifestDocument{
				Version: pagebuilder.ManifestVersion,
				Widgets: []pagebuilder.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("widgetctl: stat manifest: %w", err)
	}
	return pagebuilder.ReadManifest(path)
}

func writeManifest(path string, doc *pagebuilder.WidgetManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("widgetctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("widgetctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("widgetctl: write manifest: %w", err)
	}
	return nil
}

func writeWidgetStub(path string, entry pagebuilder.ManifestWidget, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("widgetctl: widget stub %s already exists (use --overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("widgetctl: mkdir stub dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(widgetStub(entry)), 0o644); err != nil {
		return fmt.Errorf("widgetctl: write widget stub: %w", err)
	}
	return nil
}

func widgetStub(entry pagebuilder.ManifestWidget) string {
	base := strcase.ToGoPascal(string(entry.Type))
	var fields strings.Builder
	for _, f := range entry.Fields {
		fmt.Fprintf(&fields, "\t\t\t{Name: %q, Type: %q, Label: %q, Default: %s},\n", f.Name, f.Type, f.Label, goLiteral(f.Default))
	}
	text := ""
	if entry.View.Text != "" {
		text = fmt.Sprintf("\n\t\tText:      in.Props.String(%q, \"\"),", entry.View.Text)
	}
	return fmt.Sprintf(`package widgets

import (
	"context"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const Type%[1]s pagebuilder.WidgetType = %[2]q

// %[1]s returns the %[2]s widget configuration.
func %[1]s() pagebuilder.WidgetConfig {
	return pagebuilder.WidgetConfig{
		Type:        Type%[1]s,
		DisplayName: %[3]q,
		Description: %[4]q,
		Category:    %[5]q,
		Schema: pagebuilder.WidgetSchema{Fields: []pagebuilder.FieldSpec{
%[6]s		}},
		View: %[7]sView,
	}
}

func %[7]sView(_ context.Context, in pagebuilder.ViewInput) (pagebuilder.Node, error) {
	return pagebuilder.Node{
		Component: string(Type%[1]s),
		Tag:       %[8]q,
		Attrs:     map[string]string{"class": %[9]q},%[10]s
	}, nil
}
`, base, entry.Type, entry.Name, entry.Description, entry.Category, fields.String(),
		strcase.ToGoCamel(string(entry.Type)), entry.View.Tag, entry.View.Class, text)
}

func goLiteral(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("float64(%v)", f)
	}
	return fmt.Sprintf("%#v", v)
}
