package pagebuilder

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

const (
	typeButton WidgetType = "button"
	typeBanner WidgetType = "banner"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func buttonConfig() WidgetConfig {
	return WidgetConfig{
		Type:                 typeButton,
		DisplayName:          "Button",
		DisplayNameLocalized: map[string]string{"es": "Botón"},
		Category:             "basic",
		Schema: WidgetSchema{Fields: []FieldSpec{
			{Name: "label", Type: FieldString, Required: true, Default: "Click me"},
			{Name: "size", Type: FieldEnum, Enum: []string{"sm", "md", "lg"}, Default: "md"},
		}},
		View: func(_ context.Context, in ViewInput) (Node, error) {
			return Node{
				Component: "button",
				Tag:       "a",
				Attrs:     map[string]string{"class": "btn btn-" + in.Props.String("size", "md")},
				Text:      in.Props.String("label", ""),
			}, nil
		},
	}
}

// bannerConfig is at version 2; version 1 stored the headline as "title".
func bannerConfig() WidgetConfig {
	return WidgetConfig{
		Type:        typeBanner,
		DisplayName: "Banner",
		Category:    "media",
		Version:     2,
		Schema: WidgetSchema{Fields: []FieldSpec{
			{Name: "headline", Type: FieldString, Default: ""},
			{Name: "height", Type: FieldInteger, Default: 200, Min: Float(50), Max: Float(800)},
		}},
		Migrate: StepMigrations(map[int]func(Props) Props{
			1: func(p Props) Props {
				if v, ok := p["title"]; ok {
					p["headline"] = v
					delete(p, "title")
				}
				return p
			},
		}),
		View: func(_ context.Context, in ViewInput) (Node, error) {
			return Node{Component: "banner", Tag: "section", Text: in.Props.String("headline", "")}, nil
		},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(RegistryOptions{})
	for _, cfg := range []WidgetConfig{buttonConfig(), bannerConfig()} {
		if err := reg.Register(cfg); err != nil {
			t.Fatalf("register %s: %v", cfg.Type, err)
		}
	}
	return reg
}

// newTestEditor returns an editor over a page holding one section with one
// empty row ("section-1" / "row-1").
func newTestEditor(t *testing.T) *PageEditor {
	t.Helper()
	doc := NewPageDocument("page-1", "store-1", PageMeta{Title: "Home", Slug: "home"}, fixedNow)
	editor, err := NewPageEditor(doc, EditorOptions{
		Registry: newTestRegistry(t),
		IDs:      &SequenceGenerator{},
		Now:      fixedClock,
	})
	if err != nil {
		t.Fatalf("NewPageEditor returned error: %v", err)
	}
	if _, err := editor.AddSection(SectionStyle{}, nil); err != nil {
		t.Fatalf("AddSection returned error: %v", err)
	}
	return editor
}

func newTestService(t *testing.T, hook RefreshHook) (*Service, *InMemoryPageStore) {
	t.Helper()
	store := NewInMemoryPageStore()
	store.now = fixedClock
	service := NewService(Options{
		Registry:    newTestRegistry(t),
		PageStore:   store,
		RefreshHook: hook,
		IDs:         &SequenceGenerator{},
		Now:         fixedClock,
		Templates: NewTemplateCatalog(
			PageTemplate{Code: TemplateBlank, Name: "Blank"},
			PageTemplate{Code: "promo", Name: "Promo", Sections: []TemplateSection{{
				Rows: [][]TemplateWidget{{
					{Type: typeBanner, Props: Props{"headline": "Summer sale"}},
					{Type: typeButton, Props: Props{"label": "Shop now"}},
				}},
			}}},
		),
	})
	return service, store
}

func rowWidgetIDs(doc *PageDocument, rowID string) []string {
	row, ok := doc.Row(rowID)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(row.Widgets))
	for _, widget := range row.Widgets {
		ids = append(ids, widget.ID)
	}
	return ids
}

type stubTemplateRenderer struct {
	name  string
	data  any
	err   error
	calls int
}

func (s *stubTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	s.name = name
	s.data = data
	if s.err != nil {
		return "", s.err
	}
	html := "<html>" + name + "</html>"
	for _, w := range out {
		if _, err := io.WriteString(w, html); err != nil {
			return "", err
		}
	}
	return html, nil
}

type recordingHook struct {
	events []PageEvent
	err    error
}

func (h *recordingHook) PageUpdated(_ context.Context, event PageEvent) error {
	h.events = append(h.events, event)
	return h.err
}

var errBoom = errors.New("boom")
