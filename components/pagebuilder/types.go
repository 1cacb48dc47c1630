package pagebuilder

import (
	"context"
	"encoding/json"
	"time"
)

// WidgetType identifies a registered widget implementation ("button", "gallery", ...).
type WidgetType string

// PageStatus tracks whether a page is servable on the public storefront.
type PageStatus string

const (
	StatusDraft     PageStatus = "draft"
	StatusPublished PageStatus = "published"
)

// MaxColumns is the width of the responsive grid used by rows.
const MaxColumns = 12

// WidgetRegistry is the read side of the registry consumed by editors and renderers.
type WidgetRegistry interface {
	Get(widgetType WidgetType) (WidgetConfig, bool)
	List(category string) []WidgetConfig
}

// PageStore persists page documents for a store. Implementations must be safe
// for concurrent use.
type PageStore interface {
	Get(ctx context.Context, storeID, pageID string) (*PageDocument, error)
	GetBySlug(ctx context.Context, storeID, slug string) (*PageDocument, error)
	List(ctx context.Context, storeID string) ([]PageSummary, error)
	Save(ctx context.Context, doc *PageDocument, opts SaveOptions) (*PageDocument, error)
	Delete(ctx context.Context, storeID, pageID string) error
}

// SaveOptions controls revision checks on save. A zero ExpectedRevision keeps
// last-write-wins semantics.
type SaveOptions struct {
	ExpectedRevision int64
}

// RefreshHook notifies transports (WebSocket/SSE/notifications) about page changes.
type RefreshHook interface {
	PageUpdated(ctx context.Context, event PageEvent) error
}

// ThemeProvider resolves the theme tokens configured for a store.
type ThemeProvider interface {
	Theme(ctx context.Context, storeID string) (ThemeTokens, error)
}

// ColSpan is the number of grid columns a widget occupies per breakpoint.
type ColSpan struct {
	Small  int `json:"small" yaml:"small"`
	Medium int `json:"medium" yaml:"medium"`
	Large  int `json:"large" yaml:"large"`
}

// FullWidth spans every column on every breakpoint.
func FullWidth() ColSpan {
	return ColSpan{Small: MaxColumns, Medium: MaxColumns, Large: MaxColumns}
}

func (c ColSpan) isZero() bool {
	return c.Small == 0 && c.Medium == 0 && c.Large == 0
}

func (c ColSpan) valid() bool {
	for _, v := range []int{c.Small, c.Medium, c.Large} {
		if v < 1 || v > MaxColumns {
			return false
		}
	}
	return true
}

// Visibility toggles a widget per breakpoint. Missing keys decode as visible.
type Visibility struct {
	Small  bool `json:"small"`
	Medium bool `json:"medium"`
	Large  bool `json:"large"`
}

// DefaultVisibility shows a widget on every breakpoint.
func DefaultVisibility() Visibility {
	return Visibility{Small: true, Medium: true, Large: true}
}

// UnmarshalJSON keeps omitted breakpoints visible.
func (v *Visibility) UnmarshalJSON(data []byte) error {
	type alias Visibility
	out := alias(DefaultVisibility())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*v = Visibility(out)
	return nil
}

// Hidden reports whether the widget is hidden on every breakpoint.
func (v Visibility) Hidden() bool {
	return !v.Small && !v.Medium && !v.Large
}

// WidgetInstance is a widget placed on a page.
type WidgetInstance struct {
	ID         string     `json:"id"`
	Type       WidgetType `json:"type"`
	Version    int        `json:"version"`
	Props      Props      `json:"props"`
	Visibility Visibility `json:"visibility"`
	ColSpan    *ColSpan   `json:"col_span,omitempty"`
}

// UnmarshalJSON defaults visibility when the persisted instance omits it.
func (w *WidgetInstance) UnmarshalJSON(data []byte) error {
	type alias WidgetInstance
	out := alias{Visibility: DefaultVisibility()}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*w = WidgetInstance(out)
	return nil
}

// Clone returns a copy that shares no maps or pointers with the receiver.
func (w WidgetInstance) Clone() WidgetInstance {
	out := w
	out.Props = w.Props.Clone()
	if w.ColSpan != nil {
		span := *w.ColSpan
		out.ColSpan = &span
	}
	return out
}

// Row is an ordered list of widgets.
type Row struct {
	ID      string           `json:"id"`
	Widgets []WidgetInstance `json:"widgets"`
}

// Section groups rows and carries section-level styling.
type Section struct {
	ID         string `json:"id"`
	Background string `json:"background,omitempty"`
	Padding    string `json:"padding,omitempty"`
	Rows       []Row  `json:"rows"`
}

// PageMeta holds page-level metadata.
type PageMeta struct {
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	SEOTitle       string     `json:"seo_title,omitempty"`
	SEODescription string     `json:"seo_description,omitempty"`
	Status         PageStatus `json:"status"`
}

// PageDocument is the persisted section/row/widget tree for one storefront page.
type PageDocument struct {
	ID          string     `json:"id"`
	StoreID     string     `json:"store_id"`
	Meta        PageMeta   `json:"meta"`
	Sections    []Section  `json:"sections"`
	Revision    int64      `json:"revision"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// PageSummary is the list projection of a page.
type PageSummary struct {
	ID        string     `json:"id"`
	StoreID   string     `json:"store_id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Status    PageStatus `json:"status"`
	Revision  int64      `json:"revision"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Summary projects the document for listings.
func (d *PageDocument) Summary() PageSummary {
	return PageSummary{
		ID:        d.ID,
		StoreID:   d.StoreID,
		Title:     d.Meta.Title,
		Slug:      d.Meta.Slug,
		Status:    d.Meta.Status,
		Revision:  d.Revision,
		UpdatedAt: d.UpdatedAt,
	}
}

// PageRef addresses one page of one store.
type PageRef struct {
	StoreID string `json:"store_id" validate:"required"`
	PageID  string `json:"page_id" validate:"required"`
}

// PageEvent describes a document change that transports might care about.
type PageEvent struct {
	StoreID  string `json:"store_id"`
	PageID   string `json:"page_id"`
	WidgetID string `json:"widget_id,omitempty"`
	Reason   string `json:"reason"`
	Revision int64  `json:"revision"`
}
