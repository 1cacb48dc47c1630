package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type paletteService interface {
	Palette(locale, category string) []pagebuilder.PaletteItem
	Templates() []pagebuilder.PageTemplate
	WidgetForm(ctx context.Context, ref pagebuilder.PageRef, widgetID, locale string) (pagebuilder.EditorForm, error)
}

// PaletteInput filters the palette.
type PaletteInput struct {
	Locale   string `json:"locale"`
	Category string `json:"category"`
}

// PaletteQuery lists widgets available to the editor.
type PaletteQuery struct {
	service paletteService
}

// NewPaletteQuery builds the query.
func NewPaletteQuery(service paletteService) *PaletteQuery {
	return &PaletteQuery{service: service}
}

var _ gocommand.Querier[PaletteInput, []pagebuilder.PaletteItem] = (*PaletteQuery)(nil)

// Query returns palette items.
func (q *PaletteQuery) Query(_ context.Context, input PaletteInput) ([]pagebuilder.PaletteItem, error) {
	return q.service.Palette(input.Locale, input.Category), nil
}

// TemplatesQuery lists starter page templates.
type TemplatesQuery struct {
	service paletteService
}

// NewTemplatesQuery builds the query.
func NewTemplatesQuery(service paletteService) *TemplatesQuery {
	return &TemplatesQuery{service: service}
}

var _ gocommand.Querier[struct{}, []pagebuilder.PageTemplate] = (*TemplatesQuery)(nil)

// Query returns every template.
func (q *TemplatesQuery) Query(context.Context, struct{}) ([]pagebuilder.PageTemplate, error) {
	return q.service.Templates(), nil
}

// WidgetFormInput addresses the property form of one widget.
type WidgetFormInput struct {
	Ref      pagebuilder.PageRef `json:"ref"`
	WidgetID string              `json:"widget_id"`
	Locale   string              `json:"locale"`
}

// WidgetFormQuery builds property editor forms.
type WidgetFormQuery struct {
	service paletteService
}

// NewWidgetFormQuery builds the query.
func NewWidgetFormQuery(service paletteService) *WidgetFormQuery {
	return &WidgetFormQuery{service: service}
}

var _ gocommand.Querier[WidgetFormInput, pagebuilder.EditorForm] = (*WidgetFormQuery)(nil)

// Query returns the form.
func (q *WidgetFormQuery) Query(ctx context.Context, input WidgetFormInput) (pagebuilder.EditorForm, error) {
	return q.service.WidgetForm(ctx, input.Ref, input.WidgetID, input.Locale)
}
