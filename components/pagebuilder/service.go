package pagebuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	errMissingPageStore = errors.New("pagebuilder: page store not configured")
	errInvalidStore     = errors.New("pagebuilder: store id is required")
	errInvalidPage      = errors.New("pagebuilder: page id is required")
)

// Options configures the page builder Service. Every collaborator is provided
// via interface so applications can swap implementations.
type Options struct {
	Registry    WidgetRegistry
	Validator   PropsValidator
	PageStore   PageStore
	Themes      ThemeProvider
	Templates   *TemplateCatalog
	RefreshHook RefreshHook
	Telemetry   Telemetry
	IDs         IDGenerator
	Logger      *zap.Logger
	Now         func() time.Time
}

// Service orchestrates page editing, persistence and rendering for stores.
type Service struct {
	opts     Options
	renderer *PageRenderer
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry(RegistryOptions{Logger: opts.Logger})
	}
	if opts.Validator == nil {
		if reg, ok := opts.Registry.(*Registry); ok {
			opts.Validator = reg.Validator()
		} else {
			opts.Validator = NewJSONSchemaValidator()
		}
	}
	if opts.Themes == nil {
		opts.Themes = noThemeProvider{}
	}
	if opts.Templates == nil {
		opts.Templates = NewTemplateCatalog(DefaultPageTemplates()...)
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	renderer, _ := NewPageRenderer(RendererOptions{
		Registry:  opts.Registry,
		Logger:    opts.Logger.Named("render"),
		Telemetry: opts.Telemetry,
	})
	return &Service{opts: opts, renderer: renderer}
}

// Registry exposes the widget registry used by the service.
func (s *Service) Registry() WidgetRegistry {
	return s.opts.Registry
}

// Renderer exposes the page renderer used by the service.
func (s *Service) Renderer() *PageRenderer {
	return s.renderer
}

// CreatePageRequest captures the data required to create a page.
type CreatePageRequest struct {
	StoreID  string `json:"store_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Slug     string `json:"slug"`
	Template string `json:"template"`
}

// CreatePage starts a draft page from a template (blank when omitted).
func (s *Service) CreatePage(ctx context.Context, req CreatePageRequest) (*PageDocument, error) {
	store, err := s.pageStore()
	if err != nil {
		return nil, err
	}
	if req.StoreID == "" {
		return nil, errInvalidStore
	}
	code := req.Template
	if code == "" {
		code = TemplateBlank
	}
	tpl, ok := s.opts.Templates.Get(code)
	if !ok {
		return nil, notFound("template", code)
	}
	slug := req.Slug
	if strings.TrimSpace(slug) == "" {
		slug = req.Title
	}
	slug = NormalizeSlug(slug)
	if slug == "" {
		return nil, errors.New("pagebuilder: page slug is required")
	}
	doc := NewPageDocument(s.opts.IDs.NewID("page"), req.StoreID, PageMeta{
		Title: strings.TrimSpace(req.Title),
		Slug:  slug,
	}, s.opts.Now().UTC())
	editor, err := s.newEditor(doc)
	if err != nil {
		return nil, err
	}
	if err := ApplyTemplate(editor, tpl); err != nil {
		return nil, err
	}
	saved, err := store.Save(ctx, doc, SaveOptions{})
	if err != nil {
		return nil, err
	}
	s.notifySaved(ctx, PageEvent{StoreID: saved.StoreID, PageID: saved.ID, Reason: "create", Revision: saved.Revision})
	s.recordTelemetry(ctx, "pagebuilder.page.create", map[string]any{
		"store_id": saved.StoreID,
		"page_id":  saved.ID,
		"template": code,
	})
	return saved, nil
}

// Page loads a page document.
func (s *Service) Page(ctx context.Context, ref PageRef) (*PageDocument, error) {
	store, err := s.pageStore()
	if err != nil {
		return nil, err
	}
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	return store.Get(ctx, ref.StoreID, ref.PageID)
}

// Pages lists the pages of a store.
func (s *Service) Pages(ctx context.Context, storeID string) ([]PageSummary, error) {
	store, err := s.pageStore()
	if err != nil {
		return nil, err
	}
	if storeID == "" {
		return nil, errInvalidStore
	}
	return store.List(ctx, storeID)
}

// SavePage persists a whole document edited elsewhere (for example by an
// editor host that batches changes). Widget props are validated first.
func (s *Service) SavePage(ctx context.Context, doc *PageDocument, expectedRevision int64) (*PageDocument, error) {
	store, err := s.pageStore()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("pagebuilder: document is required")
	}
	if err := s.ValidateDocument(doc); err != nil {
		return nil, err
	}
	doc = doc.Clone()
	doc.Meta.Slug = NormalizeSlug(doc.Meta.Slug)
	saved, err := store.Save(ctx, doc, SaveOptions{ExpectedRevision: expectedRevision})
	if err != nil {
		return nil, err
	}
	s.notifySaved(ctx, PageEvent{StoreID: saved.StoreID, PageID: saved.ID, Reason: "save", Revision: saved.Revision})
	s.recordTelemetry(ctx, "pagebuilder.page.save", map[string]any{
		"store_id": saved.StoreID,
		"page_id":  saved.ID,
		"revision": saved.Revision,
	})
	return saved, nil
}

// ValidateDocument checks structure and the props of every widget whose type
// is registered. Instances behind their type version are validated after
// migration. Unknown types are tolerated; they render as placeholders.
func (s *Service) ValidateDocument(doc *PageDocument) error {
	if err := doc.CheckStructure(); err != nil {
		return err
	}
	for _, section := range doc.Sections {
		for _, row := range section.Rows {
			for _, instance := range row.Widgets {
				cfg, ok := s.opts.Registry.Get(instance.Type)
				if !ok {
					continue
				}
				migrated, _, err := MigrateInstance(cfg, instance)
				if err != nil {
					return err
				}
				if err := s.opts.Validator.Validate(cfg, migrated.Props); err != nil {
					return fmt.Errorf("widget %s: %w", instance.ID, err)
				}
			}
		}
	}
	return nil
}

// DeletePage removes a page.
func (s *Service) DeletePage(ctx context.Context, ref PageRef) error {
	store, err := s.pageStore()
	if err != nil {
		return err
	}
	if err := checkRef(ref); err != nil {
		return err
	}
	if err := store.Delete(ctx, ref.StoreID, ref.PageID); err != nil {
		return err
	}
	s.notifySaved(ctx, PageEvent{StoreID: ref.StoreID, PageID: ref.PageID, Reason: "delete"})
	s.recordTelemetry(ctx, "pagebuilder.page.delete", map[string]any{
		"store_id": ref.StoreID,
		"page_id":  ref.PageID,
	})
	return nil
}

// EditRequest identifies the page an edit applies to.
type EditRequest struct {
	PageRef
	// ExpectedRevision rejects the edit when the stored page moved on. Zero
	// keeps last-write-wins.
	ExpectedRevision int64 `json:"expected_revision"`
}

// Edit loads a page, applies fn through a PageEditor and saves the result.
// Nothing is saved when fn fails.
func (s *Service) Edit(ctx context.Context, req EditRequest, reason string, fn func(*PageEditor) error) (*PageDocument, error) {
	store, err := s.pageStore()
	if err != nil {
		return nil, err
	}
	if err := checkRef(req.PageRef); err != nil {
		return nil, err
	}
	doc, err := store.Get(ctx, req.StoreID, req.PageID)
	if err != nil {
		return nil, err
	}
	editor, err := s.newEditor(doc)
	if err != nil {
		return nil, err
	}
	if err := fn(editor); err != nil {
		return nil, err
	}
	saved, err := store.Save(ctx, editor.Document(), SaveOptions{ExpectedRevision: req.ExpectedRevision})
	if err != nil {
		return nil, err
	}
	s.notifySaved(ctx, PageEvent{StoreID: saved.StoreID, PageID: saved.ID, Reason: reason, Revision: saved.Revision})
	s.recordTelemetry(ctx, "pagebuilder.page."+reason, map[string]any{
		"store_id": saved.StoreID,
		"page_id":  saved.ID,
		"revision": saved.Revision,
	})
	return saved, nil
}

// AddWidgetRequest places a new widget into a row.
type AddWidgetRequest struct {
	EditRequest
	RowID    string     `json:"row_id" validate:"required"`
	Type     WidgetType `json:"type" validate:"required"`
	Position *int       `json:"position,omitempty"`
}

// AddWidget creates a widget from its type defaults and places it.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) (WidgetInstance, error) {
	var added WidgetInstance
	_, err := s.Edit(ctx, req.EditRequest, "widget.add", func(e *PageEditor) error {
		var err error
		added, err = e.AddWidget(req.RowID, req.Type, req.Position)
		return err
	})
	return added, err
}

// MoveWidgetRequest moves a widget between rows.
type MoveWidgetRequest struct {
	EditRequest
	WidgetID  string `json:"widget_id" validate:"required"`
	FromRowID string `json:"from_row_id" validate:"required"`
	ToRowID   string `json:"to_row_id" validate:"required"`
	Position  *int   `json:"position,omitempty"`
}

// MoveWidget reorders a widget.
func (s *Service) MoveWidget(ctx context.Context, req MoveWidgetRequest) error {
	_, err := s.Edit(ctx, req.EditRequest, "widget.move", func(e *PageEditor) error {
		return e.MoveWidget(req.WidgetID, req.FromRowID, req.ToRowID, req.Position)
	})
	return err
}

// UpdateWidgetPropsRequest merges partial props into a widget.
type UpdateWidgetPropsRequest struct {
	EditRequest
	WidgetID string `json:"widget_id" validate:"required"`
	Props    Props  `json:"props"`
}

// UpdateWidgetProps validates and applies a prop edit.
func (s *Service) UpdateWidgetProps(ctx context.Context, req UpdateWidgetPropsRequest) (WidgetInstance, error) {
	var updated WidgetInstance
	_, err := s.Edit(ctx, req.EditRequest, "widget.update", func(e *PageEditor) error {
		var err error
		updated, err = e.UpdateWidgetProps(req.WidgetID, req.Props)
		return err
	})
	return updated, err
}

// WidgetRequest addresses one widget of a page.
type WidgetRequest struct {
	EditRequest
	WidgetID string `json:"widget_id" validate:"required"`
}

// RemoveWidget deletes a widget.
func (s *Service) RemoveWidget(ctx context.Context, req WidgetRequest) error {
	_, err := s.Edit(ctx, req.EditRequest, "widget.remove", func(e *PageEditor) error {
		_, err := e.RemoveWidget(req.WidgetID)
		return err
	})
	return err
}

// DuplicateWidget copies a widget next to its source.
func (s *Service) DuplicateWidget(ctx context.Context, req WidgetRequest) (WidgetInstance, error) {
	var dup WidgetInstance
	_, err := s.Edit(ctx, req.EditRequest, "widget.duplicate", func(e *PageEditor) error {
		var err error
		dup, err = e.DuplicateWidget(req.WidgetID)
		return err
	})
	return dup, err
}

// Publish makes a page visible on the storefront.
func (s *Service) Publish(ctx context.Context, req EditRequest) (*PageDocument, error) {
	return s.Edit(ctx, req, "publish", func(e *PageEditor) error {
		if err := s.ValidateDocument(e.Document()); err != nil {
			return err
		}
		e.Publish()
		return nil
	})
}

// Unpublish returns a page to draft.
func (s *Service) Unpublish(ctx context.Context, req EditRequest) (*PageDocument, error) {
	return s.Edit(ctx, req, "unpublish", func(e *PageEditor) error {
		e.Unpublish()
		return nil
	})
}

// WidgetForm returns the property editor for a widget in a page.
func (s *Service) WidgetForm(ctx context.Context, ref PageRef, widgetID, locale string) (EditorForm, error) {
	doc, err := s.Page(ctx, ref)
	if err != nil {
		return EditorForm{}, err
	}
	editor, err := s.newEditor(doc)
	if err != nil {
		return EditorForm{}, err
	}
	return editor.Form(widgetID, locale, nil)
}

// RenderPage renders any page, draft or published, for the editor canvas.
func (s *Service) RenderPage(ctx context.Context, ref PageRef, overrides ThemeTokens) (RenderedPage, error) {
	doc, err := s.Page(ctx, ref)
	if err != nil {
		return RenderedPage{}, err
	}
	theme, err := s.theme(ctx, doc.StoreID, overrides)
	if err != nil {
		return RenderedPage{}, err
	}
	return s.renderer.Render(ctx, doc, theme)
}

// StorefrontPage loads a published page by slug. Drafts are reported as not published.
func (s *Service) StorefrontPage(ctx context.Context, storeID, slug string) (*PageDocument, error) {
	store, err := s.pageStore()
	if err != nil {
		return nil, err
	}
	if storeID == "" {
		return nil, errInvalidStore
	}
	doc, err := store.GetBySlug(ctx, storeID, NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}
	if !doc.IsPublished() {
		return nil, fmt.Errorf("%w: %s", ErrPageNotPublished, slug)
	}
	return doc, nil
}

// RenderStorefront renders a published page for public visitors.
func (s *Service) RenderStorefront(ctx context.Context, storeID, slug string, overrides ThemeTokens) (RenderedPage, error) {
	doc, err := s.StorefrontPage(ctx, storeID, slug)
	if err != nil {
		return RenderedPage{}, err
	}
	theme, err := s.theme(ctx, storeID, overrides)
	if err != nil {
		return RenderedPage{}, err
	}
	return s.renderer.RenderPublished(ctx, doc, theme)
}

// Theme resolves the store theme merged with overrides.
func (s *Service) Theme(ctx context.Context, storeID string, overrides ThemeTokens) (ThemeTokens, error) {
	return s.theme(ctx, storeID, overrides)
}

// Palette lists the widgets available to the editor.
func (s *Service) Palette(locale, category string) []PaletteItem {
	return Palette(s.opts.Registry, locale, category)
}

// Templates lists the starter page templates.
func (s *Service) Templates() []PageTemplate {
	return s.opts.Templates.List()
}

// NotifyPageUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyPageUpdated(ctx context.Context, event PageEvent) error {
	if err := s.notify(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "pagebuilder.page.event", map[string]any{
		"store_id": event.StoreID,
		"page_id":  event.PageID,
		"reason":   event.Reason,
	})
	return nil
}

func (s *Service) theme(ctx context.Context, storeID string, overrides ThemeTokens) (ThemeTokens, error) {
	base, err := s.opts.Themes.Theme(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return base.Merge(overrides), nil
}

func (s *Service) newEditor(doc *PageDocument) (*PageEditor, error) {
	return NewPageEditor(doc, EditorOptions{
		Registry:  s.opts.Registry,
		Validator: s.opts.Validator,
		IDs:       s.opts.IDs,
		Logger:    s.opts.Logger.Named("editor"),
		Now:       s.opts.Now,
	})
}

func (s *Service) notify(ctx context.Context, event PageEvent) error {
	return s.opts.RefreshHook.PageUpdated(ctx, event)
}

// notifySaved runs the refresh hooks after a write has been persisted. Hook
// failures are logged, never returned: the write already happened and a retry
// would apply it twice.
func (s *Service) notifySaved(ctx context.Context, event PageEvent) {
	if err := s.notify(ctx, event); err != nil {
		s.opts.Logger.Warn("page refresh hook failed",
			zap.String("store_id", event.StoreID),
			zap.String("page_id", event.PageID),
			zap.String("reason", event.Reason),
			zap.Error(err),
		)
		s.recordTelemetry(ctx, "pagebuilder.page.notify_failed", map[string]any{
			"store_id": event.StoreID,
			"page_id":  event.PageID,
			"reason":   event.Reason,
		})
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) pageStore() (PageStore, error) {
	if s.opts.PageStore == nil {
		return nil, errMissingPageStore
	}
	return s.opts.PageStore, nil
}

func checkRef(ref PageRef) error {
	if ref.StoreID == "" {
		return errInvalidStore
	}
	if ref.PageID == "" {
		return errInvalidPage
	}
	return nil
}

type noopRefreshHook struct{}

func (noopRefreshHook) PageUpdated(context.Context, PageEvent) error {
	return nil
}
