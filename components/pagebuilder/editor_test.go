package pagebuilder

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddWidgetStartsFromSchemaDefaults(t *testing.T) {
	editor := newTestEditor(t)
	instance, err := editor.AddWidget("row-1", typeButton, nil)
	if err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}
	if instance.ID != "widget-1" {
		t.Fatalf("expected sequential id widget-1, got %s", instance.ID)
	}
	if instance.Version != 1 {
		t.Fatalf("expected version 1, got %d", instance.Version)
	}
	want := Props{"label": "Click me", "size": "md"}
	if !reflect.DeepEqual(instance.Props, want) {
		t.Fatalf("expected default props %#v, got %#v", want, instance.Props)
	}
	if instance.Visibility != DefaultVisibility() {
		t.Fatalf("expected widget visible everywhere, got %#v", instance.Visibility)
	}
	if !editor.Document().UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected UpdatedAt to follow the clock, got %s", editor.Document().UpdatedAt)
	}
}

func TestAddWidgetRejectsUnknownType(t *testing.T) {
	editor := newTestEditor(t)
	_, err := editor.AddWidget("row-1", "carousel", nil)
	if !errors.Is(err, ErrUnknownWidgetType) {
		t.Fatalf("expected ErrUnknownWidgetType, got %v", err)
	}
	var typed *UnknownWidgetTypeError
	if !errors.As(err, &typed) || typed.Type != "carousel" {
		t.Fatalf("expected typed error naming carousel, got %#v", err)
	}
	if editor.Document().WidgetCount() != 0 {
		t.Fatalf("expected no widget added")
	}
}

func TestAddWidgetRejectsMissingRow(t *testing.T) {
	editor := newTestEditor(t)
	_, err := editor.AddWidget("row-9", typeButton, nil)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "row" || nf.ID != "row-9" {
		t.Fatalf("expected row not found, got %v", err)
	}
}

func TestAddWidgetClampsPosition(t *testing.T) {
	editor := newTestEditor(t)
	for i := 0; i < 2; i++ {
		if _, err := editor.AddWidget("row-1", typeButton, nil); err != nil {
			t.Fatalf("AddWidget returned error: %v", err)
		}
	}
	if _, err := editor.AddWidget("row-1", typeButton, IntPtr(99)); err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}
	if _, err := editor.AddWidget("row-1", typeButton, IntPtr(-3)); err != nil {
		t.Fatalf("AddWidget returned error: %v", err)
	}
	got := rowWidgetIDs(editor.Document(), "row-1")
	want := []string{"widget-4", "widget-1", "widget-2", "widget-3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
}

func TestMoveWidgetAcrossRows(t *testing.T) {
	editor := newTestEditor(t)
	first, _ := editor.AddWidget("row-1", typeButton, nil)
	second, _ := editor.AddWidget("row-1", typeButton, nil)
	row, err := editor.AddRow("section-1", nil)
	if err != nil {
		t.Fatalf("AddRow returned error: %v", err)
	}
	if err := editor.MoveWidget(first.ID, "row-1", row.ID, IntPtr(0)); err != nil {
		t.Fatalf("MoveWidget returned error: %v", err)
	}
	if got := rowWidgetIDs(editor.Document(), "row-1"); !reflect.DeepEqual(got, []string{second.ID}) {
		t.Fatalf("expected source row to keep %s, got %v", second.ID, got)
	}
	if got := rowWidgetIDs(editor.Document(), row.ID); !reflect.DeepEqual(got, []string{first.ID}) {
		t.Fatalf("expected target row to hold %s, got %v", first.ID, got)
	}
}

func TestMoveWidgetWithinRow(t *testing.T) {
	editor := newTestEditor(t)
	a, _ := editor.AddWidget("row-1", typeButton, nil)
	b, _ := editor.AddWidget("row-1", typeButton, nil)
	c, _ := editor.AddWidget("row-1", typeButton, nil)
	if err := editor.MoveWidget(c.ID, "row-1", "row-1", IntPtr(0)); err != nil {
		t.Fatalf("MoveWidget returned error: %v", err)
	}
	want := []string{c.ID, a.ID, b.ID}
	if got := rowWidgetIDs(editor.Document(), "row-1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMoveWidgetRequiresWidgetInSourceRow(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)
	row, _ := editor.AddRow("section-1", nil)
	err := editor.MoveWidget(instance.ID, row.ID, "row-1", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := rowWidgetIDs(editor.Document(), "row-1"); len(got) != 1 {
		t.Fatalf("expected document untouched, got %v", got)
	}
}

func TestUpdateWidgetPropsRejectsInvalidEnum(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)

	_, err := editor.UpdateWidgetProps(instance.ID, Props{"size": "huge"})
	var verr *SchemaValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
	if !reflect.DeepEqual(verr.FieldNames(), []string{"size"}) {
		t.Fatalf("expected size to be reported, got %v", verr.FieldNames())
	}
	if verr.Type != typeButton {
		t.Fatalf("expected error to name the widget type, got %s", verr.Type)
	}
	stored, _ := editor.Document().Widget(instance.ID)
	if !reflect.DeepEqual(stored.Props, Props{"label": "Click me", "size": "md"}) {
		t.Fatalf("expected props unchanged, got %#v", stored.Props)
	}
}

func TestUpdateWidgetPropsMergesPartial(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)
	updated, err := editor.UpdateWidgetProps(instance.ID, Props{"label": "Buy"})
	if err != nil {
		t.Fatalf("UpdateWidgetProps returned error: %v", err)
	}
	if updated.Props["label"] != "Buy" || updated.Props["size"] != "md" {
		t.Fatalf("expected merged props, got %#v", updated.Props)
	}
	stored, _ := editor.Document().Widget(instance.ID)
	if stored.Props["label"] != "Buy" {
		t.Fatalf("expected document updated, got %#v", stored.Props)
	}
}

func TestUpdateWidgetPropsKeepsUntouchedFields(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)
	updated, err := editor.UpdateWidgetProps(instance.ID, Props{"size": "lg"})
	if err != nil {
		t.Fatalf("UpdateWidgetProps returned error: %v", err)
	}
	if !reflect.DeepEqual(updated.Props, Props{"label": "Click me", "size": "lg"}) {
		t.Fatalf("expected label kept, got %#v", updated.Props)
	}
	if _, err := editor.UpdateWidgetProps(instance.ID, nil); err != nil {
		t.Fatalf("expected empty edit to succeed, got %v", err)
	}
}

func TestFailedUpdateLeavesDocumentUntouched(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)
	_, _ = editor.AddWidget("row-1", typeBanner, nil)
	before := editor.Document().Clone()

	for _, partial := range []Props{{"size": "huge"}, {"color": "red"}, {"label": 7}} {
		if _, err := editor.UpdateWidgetProps(instance.ID, partial); !errors.Is(err, ErrSchemaValidation) {
			t.Fatalf("%v: expected validation error, got %v", partial, err)
		}
		if !reflect.DeepEqual(editor.Document(), before) {
			t.Fatalf("%v: expected document unchanged after a rejected edit", partial)
		}
	}
}

func TestUpdateWidgetPropsRejectsUndeclaredAndEmptyRequired(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)

	_, err := editor.UpdateWidgetProps(instance.ID, Props{"color": "red"})
	var verr *SchemaValidationError
	if !errors.As(err, &verr) || !reflect.DeepEqual(verr.FieldNames(), []string{"color"}) {
		t.Fatalf("expected undeclared prop to be rejected, got %v", err)
	}
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected error to wrap ErrSchemaValidation")
	}
}

func TestUpdateWidgetPropsNormalizesNumbers(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeBanner, nil)
	updated, err := editor.UpdateWidgetProps(instance.ID, Props{"height": 320})
	if err != nil {
		t.Fatalf("UpdateWidgetProps returned error: %v", err)
	}
	if updated.Props["height"] != float64(320) {
		t.Fatalf("expected JSON-shaped number, got %#v", updated.Props["height"])
	}
	if _, err := editor.UpdateWidgetProps(instance.ID, Props{"height": 10}); err == nil {
		t.Fatalf("expected minimum to be enforced")
	}
}

func TestDuplicateWidgetTwiceYieldsIndependentCopies(t *testing.T) {
	editor := newTestEditor(t)
	source, _ := editor.AddWidget("row-1", typeButton, nil)

	first, err := editor.DuplicateWidget(source.ID)
	if err != nil {
		t.Fatalf("DuplicateWidget returned error: %v", err)
	}
	second, err := editor.DuplicateWidget(source.ID)
	if err != nil {
		t.Fatalf("DuplicateWidget returned error: %v", err)
	}
	if first.ID == second.ID || first.ID == source.ID || second.ID == source.ID {
		t.Fatalf("expected distinct ids, got %s %s %s", source.ID, first.ID, second.ID)
	}
	want := []string{source.ID, second.ID, first.ID}
	if got := rowWidgetIDs(editor.Document(), "row-1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected duplicates next to the source %v, got %v", want, got)
	}

	if _, err := editor.UpdateWidgetProps(first.ID, Props{"label": "Changed"}); err != nil {
		t.Fatalf("UpdateWidgetProps returned error: %v", err)
	}
	if _, err := editor.RemoveWidget(first.ID); err != nil {
		t.Fatalf("RemoveWidget returned error: %v", err)
	}
	remaining, ok := editor.Document().Widget(second.ID)
	if !ok {
		t.Fatalf("expected second duplicate to survive")
	}
	if remaining.Props["label"] != "Click me" {
		t.Fatalf("expected second duplicate unaffected, got %#v", remaining.Props)
	}
	original, _ := editor.Document().Widget(source.ID)
	if original.Props["label"] != "Click me" {
		t.Fatalf("expected source unaffected, got %#v", original.Props)
	}
}

func TestMigrateWidgetUpgradesLegacyInstance(t *testing.T) {
	editor := newTestEditor(t)
	doc := editor.Document()
	doc.Sections[0].Rows[0].Widgets = append(doc.Sections[0].Rows[0].Widgets, WidgetInstance{
		ID:         "legacy",
		Type:       typeBanner,
		Version:    1,
		Props:      Props{"title": "Sale"},
		Visibility: DefaultVisibility(),
	})

	migrated, err := editor.MigrateWidget("legacy")
	if err != nil {
		t.Fatalf("MigrateWidget returned error: %v", err)
	}
	if migrated.Version != 2 || migrated.Props["headline"] != "Sale" {
		t.Fatalf("expected v2 instance with headline, got %#v", migrated)
	}
	if _, ok := migrated.Props["title"]; ok {
		t.Fatalf("expected title to be renamed, got %#v", migrated.Props)
	}
	stored, _ := doc.Widget("legacy")
	if stored.Version != 2 {
		t.Fatalf("expected migrated instance written back, got version %d", stored.Version)
	}
}

func TestUpdateWidgetPropsMigratesFirst(t *testing.T) {
	editor := newTestEditor(t)
	doc := editor.Document()
	doc.Sections[0].Rows[0].Widgets = append(doc.Sections[0].Rows[0].Widgets, WidgetInstance{
		ID: "legacy", Type: typeBanner, Version: 1, Props: Props{"title": "Sale"},
	})
	updated, err := editor.UpdateWidgetProps("legacy", Props{"height": 300})
	if err != nil {
		t.Fatalf("UpdateWidgetProps returned error: %v", err)
	}
	if updated.Version != 2 || updated.Props["headline"] != "Sale" || updated.Props["height"] != float64(300) {
		t.Fatalf("unexpected instance %#v", updated)
	}
}

func TestSetWidgetColSpan(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)
	if err := editor.SetWidgetColSpan(instance.ID, &ColSpan{Small: 12, Medium: 6, Large: 4}); err != nil {
		t.Fatalf("SetWidgetColSpan returned error: %v", err)
	}
	stored, _ := editor.Document().Widget(instance.ID)
	if stored.ColSpan == nil || stored.ColSpan.Large != 4 {
		t.Fatalf("expected override stored, got %#v", stored.ColSpan)
	}
	if err := editor.SetWidgetColSpan(instance.ID, &ColSpan{Small: 0, Medium: 6, Large: 13}); err == nil {
		t.Fatalf("expected out of range span to be rejected")
	}
	if err := editor.SetWidgetColSpan(instance.ID, nil); err != nil {
		t.Fatalf("SetWidgetColSpan returned error: %v", err)
	}
	stored, _ = editor.Document().Widget(instance.ID)
	if stored.ColSpan != nil {
		t.Fatalf("expected override cleared, got %#v", stored.ColSpan)
	}
}

func TestSetWidgetVisibility(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)
	if err := editor.SetWidgetVisibility(instance.ID, Visibility{Large: true}); err != nil {
		t.Fatalf("SetWidgetVisibility returned error: %v", err)
	}
	stored, _ := editor.Document().Widget(instance.ID)
	if stored.Visibility.Small || stored.Visibility.Medium || !stored.Visibility.Large {
		t.Fatalf("unexpected visibility %#v", stored.Visibility)
	}
	if err := editor.SetWidgetVisibility("missing", Visibility{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSectionAndRowOperations(t *testing.T) {
	editor := newTestEditor(t)
	second, err := editor.AddSection(SectionStyle{Background: "#fff", Padding: "8px"}, IntPtr(0))
	if err != nil {
		t.Fatalf("AddSection returned error: %v", err)
	}
	doc := editor.Document()
	if doc.Sections[0].ID != second.ID || doc.Sections[1].ID != "section-1" {
		t.Fatalf("expected new section first, got %s %s", doc.Sections[0].ID, doc.Sections[1].ID)
	}
	if len(second.Rows) != 1 {
		t.Fatalf("expected new section to hold one row, got %d", len(second.Rows))
	}
	if err := editor.MoveSection(second.ID, nil); err != nil {
		t.Fatalf("MoveSection returned error: %v", err)
	}
	if doc.Sections[1].ID != second.ID {
		t.Fatalf("expected section moved last")
	}
	if err := editor.UpdateSection(second.ID, SectionStyle{Background: "#000"}); err != nil {
		t.Fatalf("UpdateSection returned error: %v", err)
	}
	if doc.Sections[1].Background != "#000" || doc.Sections[1].Padding != "" {
		t.Fatalf("expected style replaced, got %#v", doc.Sections[1])
	}

	instance, _ := editor.AddWidget("row-1", typeButton, nil)
	if err := editor.MoveRow("row-1", second.ID, IntPtr(0)); err != nil {
		t.Fatalf("MoveRow returned error: %v", err)
	}
	if len(doc.Sections[0].Rows) != 0 || doc.Sections[1].Rows[0].ID != "row-1" {
		t.Fatalf("expected row-1 moved into %s", second.ID)
	}
	if _, ok := doc.Widget(instance.ID); !ok {
		t.Fatalf("expected widget to travel with its row")
	}
	if err := editor.RemoveRow("row-1"); err != nil {
		t.Fatalf("RemoveRow returned error: %v", err)
	}
	if doc.WidgetCount() != 0 {
		t.Fatalf("expected widgets removed with the row")
	}
	if err := editor.RemoveSection("section-1"); err != nil {
		t.Fatalf("RemoveSection returned error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected one section left, got %d", len(doc.Sections))
	}
	if err := editor.RemoveSection("section-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := editor.MoveRow(doc.Sections[0].Rows[0].ID, "section-9", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing target section, got %v", err)
	}
}

func TestUpdateMetaNormalizesSlug(t *testing.T) {
	editor := newTestEditor(t)
	title, slug := "  About us ", "About Us"
	if err := editor.UpdateMeta(MetaInput{Title: &title, Slug: &slug}); err != nil {
		t.Fatalf("UpdateMeta returned error: %v", err)
	}
	meta := editor.Document().Meta
	if meta.Title != "About us" || meta.Slug != "about-us" {
		t.Fatalf("unexpected meta %#v", meta)
	}
	empty := "  "
	if err := editor.UpdateMeta(MetaInput{Slug: &empty}); err == nil {
		t.Fatalf("expected empty slug to be rejected")
	}
	if editor.Document().Meta.Slug != "about-us" {
		t.Fatalf("expected slug unchanged after failed update")
	}
}

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"About Us":          "about-us",
		"/summer/Big Sale/": "summer/big-sale",
		"":                  "",
	}
	for in, want := range cases {
		if got := NormalizeSlug(in); got != want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPublishAndUnpublish(t *testing.T) {
	editor := newTestEditor(t)
	editor.Publish()
	doc := editor.Document()
	if !doc.IsPublished() || doc.PublishedAt == nil || !doc.PublishedAt.Equal(fixedNow) {
		t.Fatalf("expected page published at the clock time, got %#v", doc.PublishedAt)
	}
	editor.Unpublish()
	if doc.IsPublished() || doc.PublishedAt != nil {
		t.Fatalf("expected page back to draft")
	}
}

func TestFormReflectsResolvedPropsAndErrors(t *testing.T) {
	editor := newTestEditor(t)
	instance, _ := editor.AddWidget("row-1", typeButton, nil)
	form, err := editor.Form(instance.ID, "es-MX", []FieldError{{Field: "size", Reason: "bad"}})
	if err != nil {
		t.Fatalf("Form returned error: %v", err)
	}
	if form.Title != "Botón" {
		t.Fatalf("expected localized title, got %q", form.Title)
	}
	if len(form.Fields) != 2 || form.Fields[0].Name != "label" || form.Fields[1].Name != "size" {
		t.Fatalf("unexpected fields %#v", form.Fields)
	}
	if form.Fields[1].Error != "bad" || !reflect.DeepEqual(form.Fields[1].Options, []string{"sm", "md", "lg"}) {
		t.Fatalf("unexpected size field %#v", form.Fields[1])
	}
	if form.Fields[0].Value != "Click me" || !form.Fields[0].Required {
		t.Fatalf("unexpected label field %#v", form.Fields[0])
	}
}
