package pagebuilder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// PlaceholderComponent is the component name of the node rendered in place of
// widgets that cannot be rendered.
const PlaceholderComponent = "unsupported-widget"

const (
	ReasonUnknownType = "unknown_type"
	ReasonMigration   = "migration_failed"
	ReasonView        = "view_failed"
)

// RendererOptions configures a PageRenderer.
type RendererOptions struct {
	Registry  WidgetRegistry
	Logger    *zap.Logger
	Telemetry Telemetry
}

// PageRenderer composes widget views against a page document. It never
// mutates the document it renders.
type PageRenderer struct {
	registry  WidgetRegistry
	logger    *zap.Logger
	telemetry Telemetry
}

// RenderedPage is the render tree of a whole page.
type RenderedPage struct {
	PageID       string            `json:"page_id"`
	StoreID      string            `json:"store_id"`
	Meta         PageMeta          `json:"meta"`
	Revision     int64             `json:"revision"`
	Theme        ThemeTokens       `json:"theme,omitempty"`
	Sections     []RenderedSection `json:"sections"`
	Placeholders int               `json:"placeholders"`
}

// RenderedSection is one rendered section.
type RenderedSection struct {
	ID         string        `json:"id"`
	Background string        `json:"background,omitempty"`
	Padding    string        `json:"padding,omitempty"`
	Rows       []RenderedRow `json:"rows"`
}

// RenderedRow is one rendered row.
type RenderedRow struct {
	ID      string           `json:"id"`
	Widgets []RenderedWidget `json:"widgets"`
}

// RenderedWidget carries the view output for one instance, or a placeholder.
type RenderedWidget struct {
	ID          string     `json:"id"`
	Type        WidgetType `json:"type"`
	Version     int        `json:"version"`
	Visibility  Visibility `json:"visibility"`
	ColSpan     ColSpan    `json:"col_span"`
	Node        Node       `json:"node"`
	Placeholder bool       `json:"placeholder,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// NewPageRenderer builds a renderer.
func NewPageRenderer(opts RendererOptions) (*PageRenderer, error) {
	if opts.Registry == nil {
		return nil, errors.New("pagebuilder: renderer requires a widget registry")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageRenderer{
		registry:  opts.Registry,
		logger:    logger,
		telemetry: normalizeTelemetry(opts.Telemetry),
	}, nil
}

// Render walks the document and renders every widget. A widget whose type is
// unknown, whose migration fails, or whose view fails is replaced by a
// placeholder; the rest of the page still renders.
func (r *PageRenderer) Render(ctx context.Context, doc *PageDocument, theme ThemeTokens) (RenderedPage, error) {
	if doc == nil {
		return RenderedPage{}, errors.New("pagebuilder: render requires a document")
	}
	page := RenderedPage{
		PageID:   doc.ID,
		StoreID:  doc.StoreID,
		Meta:     doc.Meta,
		Revision: doc.Revision,
		Theme:    theme,
		Sections: make([]RenderedSection, 0, len(doc.Sections)),
	}
	for _, section := range doc.Sections {
		rs := RenderedSection{
			ID:         section.ID,
			Background: section.Background,
			Padding:    section.Padding,
			Rows:       make([]RenderedRow, 0, len(section.Rows)),
		}
		for _, row := range section.Rows {
			rr := RenderedRow{ID: row.ID, Widgets: make([]RenderedWidget, 0, len(row.Widgets))}
			for _, instance := range row.Widgets {
				if err := ctx.Err(); err != nil {
					return RenderedPage{}, err
				}
				rendered := r.renderWidget(ctx, instance, theme)
				if rendered.Placeholder {
					page.Placeholders++
				}
				rr.Widgets = append(rr.Widgets, rendered)
			}
			rs.Rows = append(rs.Rows, rr)
		}
		page.Sections = append(page.Sections, rs)
	}
	r.telemetry.Record(ctx, "pagebuilder.page.render", map[string]any{
		"page_id":      doc.ID,
		"store_id":     doc.StoreID,
		"widgets":      doc.WidgetCount(),
		"placeholders": page.Placeholders,
	})
	return page, nil
}

// RenderPublished renders a page for storefront visitors; drafts are refused.
func (r *PageRenderer) RenderPublished(ctx context.Context, doc *PageDocument, theme ThemeTokens) (RenderedPage, error) {
	if doc == nil {
		return RenderedPage{}, errors.New("pagebuilder: render requires a document")
	}
	if !doc.IsPublished() {
		return RenderedPage{}, fmt.Errorf("%w: %s", ErrPageNotPublished, doc.ID)
	}
	return r.Render(ctx, doc, theme)
}

// RenderWidget renders a single instance, as the editor canvas does for live previews.
func (r *PageRenderer) RenderWidget(ctx context.Context, instance WidgetInstance, theme ThemeTokens) RenderedWidget {
	return r.renderWidget(ctx, instance, theme)
}

func (r *PageRenderer) renderWidget(ctx context.Context, instance WidgetInstance, theme ThemeTokens) RenderedWidget {
	out := RenderedWidget{
		ID:         instance.ID,
		Type:       instance.Type,
		Version:    instance.Version,
		Visibility: instance.Visibility,
		ColSpan:    FullWidth(),
	}
	if instance.ColSpan != nil && !instance.ColSpan.isZero() {
		out.ColSpan = *instance.ColSpan
	}
	cfg, ok := r.registry.Get(instance.Type)
	if !ok {
		r.logger.Warn("unknown widget type", zap.String("widget_id", instance.ID), zap.String("type", string(instance.Type)))
		return placeholder(out, ReasonUnknownType)
	}
	out.ColSpan = cfg.EffectiveColSpan(instance)
	migrated, _, err := MigrateInstance(cfg, instance)
	if err != nil {
		r.logger.Warn("widget migration failed", zap.String("widget_id", instance.ID), zap.Error(err))
		return placeholder(out, ReasonMigration)
	}
	out.Version = migrated.Version
	node, err := r.callView(ctx, cfg, ViewInput{
		Instance:   migrated,
		Schema:     cfg.Schema,
		Props:      cfg.Schema.Resolve(migrated.Props),
		Visibility: migrated.Visibility,
		ColSpan:    out.ColSpan,
		Theme:      theme,
	})
	if err != nil {
		r.logger.Warn("widget view failed", zap.String("widget_id", instance.ID), zap.String("type", string(instance.Type)), zap.Error(err))
		return placeholder(out, ReasonView)
	}
	out.Node = node
	return out
}

func (r *PageRenderer) callView(ctx context.Context, cfg WidgetConfig, in ViewInput) (node Node, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pagebuilder: view %s panicked: %v", cfg.Type, rec)
		}
	}()
	return cfg.View(ctx, in)
}

func placeholder(out RenderedWidget, reason string) RenderedWidget {
	out.Placeholder = true
	out.Reason = reason
	out.Node = PlaceholderNode(out.Type, reason)
	return out
}

// PlaceholderNode is the visible stand-in for a widget that cannot be rendered.
func PlaceholderNode(widgetType WidgetType, reason string) Node {
	return Node{
		Component: PlaceholderComponent,
		Tag:       "div",
		Attrs: map[string]string{
			"class":            "pb-unsupported-widget",
			"data-widget-type": string(widgetType),
			"data-reason":      reason,
		},
		Text: fmt.Sprintf("Unsupported widget: %s", widgetType),
	}
}
