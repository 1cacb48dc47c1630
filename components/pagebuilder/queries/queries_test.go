package queries

import (
	"context"
	"testing"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type stubService struct {
	ref       pagebuilder.PageRef
	storeID   string
	slug      string
	overrides pagebuilder.ThemeTokens
	locale    string
	category  string
	widgetID  string
}

func (s *stubService) Page(_ context.Context, ref pagebuilder.PageRef) (*pagebuilder.PageDocument, error) {
	s.ref = ref
	return &pagebuilder.PageDocument{ID: ref.PageID, StoreID: ref.StoreID}, nil
}

func (s *stubService) Pages(_ context.Context, storeID string) ([]pagebuilder.PageSummary, error) {
	s.storeID = storeID
	return []pagebuilder.PageSummary{{ID: "page-1", Slug: "home"}}, nil
}

func (s *stubService) RenderPage(_ context.Context, ref pagebuilder.PageRef, overrides pagebuilder.ThemeTokens) (pagebuilder.RenderedPage, error) {
	s.ref = ref
	s.overrides = overrides
	return pagebuilder.RenderedPage{}, nil
}

func (s *stubService) RenderStorefront(_ context.Context, storeID, slug string, overrides pagebuilder.ThemeTokens) (pagebuilder.RenderedPage, error) {
	s.storeID = storeID
	s.slug = slug
	s.overrides = overrides
	return pagebuilder.RenderedPage{}, nil
}

func (s *stubService) Palette(locale, category string) []pagebuilder.PaletteItem {
	s.locale = locale
	s.category = category
	return []pagebuilder.PaletteItem{{Type: "button"}}
}

func (s *stubService) Templates() []pagebuilder.PageTemplate {
	return []pagebuilder.PageTemplate{{Code: pagebuilder.TemplateBlank}}
}

func (s *stubService) WidgetForm(_ context.Context, ref pagebuilder.PageRef, widgetID, locale string) (pagebuilder.EditorForm, error) {
	s.ref = ref
	s.widgetID = widgetID
	s.locale = locale
	return pagebuilder.EditorForm{}, nil
}

func TestPageQueries(t *testing.T) {
	service := &stubService{}
	ref := pagebuilder.PageRef{StoreID: "store-1", PageID: "page-1"}
	doc, err := NewPageQuery(service).Query(context.Background(), ref)
	if err != nil || doc.ID != "page-1" || service.ref != ref {
		t.Fatalf("unexpected page query result %#v %v", doc, err)
	}
	pages, err := NewPageListQuery(service).Query(context.Background(), PageListInput{StoreID: "store-1"})
	if err != nil || len(pages) != 1 || service.storeID != "store-1" {
		t.Fatalf("unexpected page list %#v %v", pages, err)
	}
}

func TestRenderQueriesForwardTheme(t *testing.T) {
	service := &stubService{}
	theme := pagebuilder.ThemeTokens{"color.primary": "#111"}
	if _, err := NewRenderPageQuery(service).Query(context.Background(), RenderPageInput{
		Ref:   pagebuilder.PageRef{StoreID: "store-1", PageID: "page-1"},
		Theme: theme,
	}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.overrides["color.primary"] != "#111" {
		t.Fatalf("expected overrides forwarded")
	}
	if _, err := NewStorefrontQuery(service).Query(context.Background(), StorefrontInput{StoreID: "store-2", Slug: "sale"}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.storeID != "store-2" || service.slug != "sale" || service.overrides != nil {
		t.Fatalf("unexpected storefront call %#v", service)
	}
}

func TestPaletteQueries(t *testing.T) {
	service := &stubService{}
	items, err := NewPaletteQuery(service).Query(context.Background(), PaletteInput{Locale: "es", Category: "basic"})
	if err != nil || len(items) != 1 {
		t.Fatalf("unexpected palette %#v %v", items, err)
	}
	if service.locale != "es" || service.category != "basic" {
		t.Fatalf("expected filters forwarded, got %q %q", service.locale, service.category)
	}
	templates, err := NewTemplatesQuery(service).Query(context.Background(), struct{}{})
	if err != nil || len(templates) != 1 || templates[0].Code != pagebuilder.TemplateBlank {
		t.Fatalf("unexpected templates %#v %v", templates, err)
	}
	if _, err := NewWidgetFormQuery(service).Query(context.Background(), WidgetFormInput{
		Ref:      pagebuilder.PageRef{StoreID: "store-1", PageID: "page-1"},
		WidgetID: "widget-3",
		Locale:   "fr",
	}); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.widgetID != "widget-3" || service.locale != "fr" {
		t.Fatalf("unexpected form call %#v", service)
	}
}
