package pagebuilder

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type recordingTelemetry struct {
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.events = append(r.events, event)
}

func newTestRenderer(t *testing.T, reg *Registry, telemetry Telemetry) *PageRenderer {
	t.Helper()
	renderer, err := NewPageRenderer(RendererOptions{Registry: reg, Telemetry: telemetry})
	if err != nil {
		t.Fatalf("NewPageRenderer returned error: %v", err)
	}
	return renderer
}

func TestRenderProducesNodesInDocumentOrder(t *testing.T) {
	editor := newTestEditor(t)
	button, _ := editor.AddWidget("row-1", typeButton, nil)
	banner, _ := editor.AddWidget("row-1", typeBanner, nil)
	if _, err := editor.UpdateWidgetProps(banner.ID, Props{"headline": "Hello"}); err != nil {
		t.Fatalf("UpdateWidgetProps returned error: %v", err)
	}
	telemetry := &recordingTelemetry{}
	renderer := newTestRenderer(t, newTestRegistry(t), telemetry)

	page, err := renderer.Render(context.Background(), editor.Document(), ThemeTokens{"color.primary": "#000"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	widgets := page.Sections[0].Rows[0].Widgets
	if len(widgets) != 2 || widgets[0].ID != button.ID || widgets[1].ID != banner.ID {
		t.Fatalf("unexpected widgets %#v", widgets)
	}
	if widgets[0].Node.Text != "Click me" || widgets[0].Node.Attrs["class"] != "btn btn-md" {
		t.Fatalf("unexpected button node %#v", widgets[0].Node)
	}
	if widgets[1].Node.Text != "Hello" {
		t.Fatalf("unexpected banner node %#v", widgets[1].Node)
	}
	if page.Placeholders != 0 || page.Theme["color.primary"] != "#000" {
		t.Fatalf("unexpected page %#v", page)
	}
	if widgets[0].ColSpan != FullWidth() {
		t.Fatalf("expected full width span, got %#v", widgets[0].ColSpan)
	}
	if !reflect.DeepEqual(telemetry.events, []string{"pagebuilder.page.render"}) {
		t.Fatalf("expected render telemetry, got %v", telemetry.events)
	}
}

func TestRenderReplacesBrokenWidgetsWithPlaceholders(t *testing.T) {
	reg := newTestRegistry(t)
	reg.MustRegister(WidgetConfig{
		Type: "panicky",
		View: func(context.Context, ViewInput) (Node, error) { panic("kaboom") },
	})
	reg.MustRegister(WidgetConfig{
		Type: "failing",
		View: func(context.Context, ViewInput) (Node, error) { return Node{}, errBoom },
	})
	reg.MustRegister(WidgetConfig{
		Type:    "unmigratable",
		Version: 3,
		View:    func(context.Context, ViewInput) (Node, error) { return Node{Tag: "div"}, nil },
		Migrate: func(WidgetInstance, int) (WidgetInstance, error) { return WidgetInstance{}, errBoom },
	})

	doc := NewPageDocument("page-1", "store-1", PageMeta{Slug: "home"}, fixedNow)
	doc.Sections = []Section{{ID: "s1", Rows: []Row{{ID: "r1", Widgets: []WidgetInstance{
		{ID: "a", Type: typeButton, Version: 1, Props: Props{"label": "Ok", "size": "sm"}, Visibility: DefaultVisibility()},
		{ID: "b", Type: "removed-type", Props: Props{"x": 1.0}},
		{ID: "c", Type: "panicky"},
		{ID: "d", Type: "failing"},
		{ID: "e", Type: "unmigratable", Version: 1},
	}}}}}
	before := doc.Clone()

	page, err := newTestRenderer(t, reg, nil).Render(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	widgets := page.Sections[0].Rows[0].Widgets
	if len(widgets) != 5 {
		t.Fatalf("expected every widget rendered, got %d", len(widgets))
	}
	if widgets[0].Placeholder || widgets[0].Node.Text != "Ok" {
		t.Fatalf("expected healthy widget to render, got %#v", widgets[0])
	}
	reasons := []string{widgets[1].Reason, widgets[2].Reason, widgets[3].Reason, widgets[4].Reason}
	want := []string{ReasonUnknownType, ReasonView, ReasonView, ReasonMigration}
	if !reflect.DeepEqual(reasons, want) {
		t.Fatalf("expected reasons %v, got %v", want, reasons)
	}
	if page.Placeholders != 4 {
		t.Fatalf("expected four placeholders, got %d", page.Placeholders)
	}
	node := widgets[1].Node
	if node.Component != PlaceholderComponent || node.Attrs["data-widget-type"] != "removed-type" {
		t.Fatalf("unexpected placeholder node %#v", node)
	}
	if !reflect.DeepEqual(doc, before) {
		t.Fatalf("expected render to leave the document untouched")
	}
}

func TestRenderMigratesWithoutWritingBack(t *testing.T) {
	doc := NewPageDocument("page-1", "store-1", PageMeta{Slug: "home"}, fixedNow)
	doc.Sections = []Section{{ID: "s1", Rows: []Row{{ID: "r1", Widgets: []WidgetInstance{
		{ID: "legacy", Type: typeBanner, Version: 1, Props: Props{"title": "Old"}},
	}}}}}
	page, err := newTestRenderer(t, newTestRegistry(t), nil).Render(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	rendered := page.Sections[0].Rows[0].Widgets[0]
	if rendered.Version != 2 || rendered.Node.Text != "Old" {
		t.Fatalf("expected migrated render, got %#v", rendered)
	}
	stored, _ := doc.Widget("legacy")
	if stored.Version != 1 || stored.Props["title"] != "Old" {
		t.Fatalf("expected stored instance untouched, got %#v", stored)
	}
}

func TestRenderPublishedRefusesDrafts(t *testing.T) {
	renderer := newTestRenderer(t, newTestRegistry(t), nil)
	doc := NewPageDocument("page-1", "store-1", PageMeta{Slug: "home"}, fixedNow)
	if _, err := renderer.RenderPublished(context.Background(), doc, nil); !errors.Is(err, ErrPageNotPublished) {
		t.Fatalf("expected ErrPageNotPublished, got %v", err)
	}
	doc.Meta.Status = StatusPublished
	if _, err := renderer.RenderPublished(context.Background(), doc, nil); err != nil {
		t.Fatalf("expected published page to render: %v", err)
	}
}

func TestRenderStopsOnCancelledContext(t *testing.T) {
	editor := newTestEditor(t)
	_, _ = editor.AddWidget("row-1", typeButton, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRenderer(t, newTestRegistry(t), nil).Render(ctx, editor.Document(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderWidgetUsesInstanceColSpan(t *testing.T) {
	renderer := newTestRenderer(t, newTestRegistry(t), nil)
	span := ColSpan{Small: 12, Medium: 6, Large: 3}
	rendered := renderer.RenderWidget(context.Background(), WidgetInstance{
		ID: "w", Type: typeButton, Version: 1, Props: Props{"label": "x"}, ColSpan: &span,
	}, nil)
	if rendered.ColSpan != span {
		t.Fatalf("expected instance span, got %#v", rendered.ColSpan)
	}
	if rendered.Node.Attrs["class"] != "btn btn-md" {
		t.Fatalf("expected missing props resolved from defaults, got %#v", rendered.Node.Attrs)
	}
}

func TestNewPageRendererRequiresRegistry(t *testing.T) {
	if _, err := NewPageRenderer(RendererOptions{}); err == nil {
		t.Fatalf("expected missing registry to be rejected")
	}
}
