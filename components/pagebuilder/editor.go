package pagebuilder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ettle/strcase"
	"go.uber.org/zap"
)

// EditorOptions configures a PageEditor.
type EditorOptions struct {
	Registry  WidgetRegistry
	Validator PropsValidator
	IDs       IDGenerator
	Logger    *zap.Logger
	Now       func() time.Time
}

// PageEditor applies structural and prop edits to one in-memory document.
// It is owned by a single editing session and is not safe for concurrent use.
// Every failing operation leaves the document untouched.
type PageEditor struct {
	doc  *PageDocument
	opts EditorOptions
}

// NewPageEditor wraps doc for editing.
func NewPageEditor(doc *PageDocument, opts EditorOptions) (*PageEditor, error) {
	if doc == nil {
		return nil, errors.New("pagebuilder: editor requires a document")
	}
	if opts.Registry == nil {
		return nil, errors.New("pagebuilder: editor requires a widget registry")
	}
	if opts.Validator == nil {
		if reg, ok := opts.Registry.(*Registry); ok {
			opts.Validator = reg.Validator()
		} else {
			opts.Validator = NewJSONSchemaValidator()
		}
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
	return &PageEditor{doc: doc, opts: opts}, nil
}

// Document returns the document being edited.
func (e *PageEditor) Document() *PageDocument {
	return e.doc
}

// AddWidget creates an instance of widgetType from its default props and
// inserts it into the row at atIndex (clamped; nil appends).
func (e *PageEditor) AddWidget(rowID string, widgetType WidgetType, atIndex *int) (WidgetInstance, error) {
	cfg, ok := e.opts.Registry.Get(widgetType)
	if !ok {
		return WidgetInstance{}, &UnknownWidgetTypeError{Type: widgetType}
	}
	si, ri, ok := e.doc.locateRow(rowID)
	if !ok {
		return WidgetInstance{}, notFound("row", rowID)
	}
	instance := cfg.NewInstance(e.newID("widget"))
	widgets := e.doc.rowWidgets(si, ri)
	*widgets, _ = insertAt(*widgets, atIndex, instance)
	e.touch()
	e.opts.Logger.Debug("widget added",
		zap.String("page_id", e.doc.ID),
		zap.String("row_id", rowID),
		zap.String("widget_id", instance.ID),
		zap.String("type", string(widgetType)),
	)
	return instance.Clone(), nil
}

// MoveWidget moves a widget from one row to another (or within a row).
func (e *PageEditor) MoveWidget(widgetID, fromRowID, toRowID string, atIndex *int) error {
	fromSI, fromRI, ok := e.doc.locateRow(fromRowID)
	if !ok {
		return notFound("row", fromRowID)
	}
	wi := -1
	for idx, widget := range e.doc.Sections[fromSI].Rows[fromRI].Widgets {
		if widget.ID == widgetID {
			wi = idx
			break
		}
	}
	if wi < 0 {
		return notFound("widget", widgetID)
	}
	toSI, toRI, ok := e.doc.locateRow(toRowID)
	if !ok {
		return notFound("row", toRowID)
	}
	from := e.doc.rowWidgets(fromSI, fromRI)
	var moved WidgetInstance
	*from, moved = removeAt(*from, wi)
	to := e.doc.rowWidgets(toSI, toRI)
	*to, _ = insertAt(*to, atIndex, moved)
	e.touch()
	return nil
}

// UpdateWidgetProps shallow-merges partial into the widget props and
// validates the result. On failure the instance is left unchanged and a
// *SchemaValidationError names the offending fields.
func (e *PageEditor) UpdateWidgetProps(widgetID string, partial Props) (WidgetInstance, error) {
	si, ri, wi, ok := e.doc.locateWidget(widgetID)
	if !ok {
		return WidgetInstance{}, notFound("widget", widgetID)
	}
	current := e.doc.Sections[si].Rows[ri].Widgets[wi]
	cfg, ok := e.opts.Registry.Get(current.Type)
	if !ok {
		return WidgetInstance{}, &UnknownWidgetTypeError{Type: current.Type}
	}
	next, _, err := MigrateInstance(cfg, current)
	if err != nil {
		return WidgetInstance{}, err
	}
	merged := next.Props.Clone()
	if merged == nil {
		merged = Props{}
	}
	for key, value := range partial.Clone() {
		merged[key] = value
	}
	normalized, err := normalizeProps(merged)
	if err != nil {
		return WidgetInstance{}, err
	}
	if err := e.opts.Validator.Validate(cfg, normalized); err != nil {
		return WidgetInstance{}, err
	}
	next.Props = normalized
	e.doc.Sections[si].Rows[ri].Widgets[wi] = next
	e.touch()
	return next.Clone(), nil
}

// MigrateWidget brings one widget forward to its registered version and
// writes it back. It is a no-op for current widgets.
func (e *PageEditor) MigrateWidget(widgetID string) (WidgetInstance, error) {
	si, ri, wi, ok := e.doc.locateWidget(widgetID)
	if !ok {
		return WidgetInstance{}, notFound("widget", widgetID)
	}
	current := e.doc.Sections[si].Rows[ri].Widgets[wi]
	cfg, ok := e.opts.Registry.Get(current.Type)
	if !ok {
		return WidgetInstance{}, &UnknownWidgetTypeError{Type: current.Type}
	}
	next, migrated, err := MigrateInstance(cfg, current)
	if err != nil {
		return WidgetInstance{}, err
	}
	if migrated {
		e.doc.Sections[si].Rows[ri].Widgets[wi] = next
		e.touch()
		e.opts.Logger.Debug("widget migrated",
			zap.String("widget_id", widgetID),
			zap.Int("from", instanceVersion(current)),
			zap.Int("to", next.Version),
		)
	}
	return next.Clone(), nil
}

// RemoveWidget deletes a widget from whichever row holds it.
func (e *PageEditor) RemoveWidget(widgetID string) (WidgetInstance, error) {
	si, ri, wi, ok := e.doc.locateWidget(widgetID)
	if !ok {
		return WidgetInstance{}, notFound("widget", widgetID)
	}
	widgets := e.doc.rowWidgets(si, ri)
	var removed WidgetInstance
	*widgets, removed = removeAt(*widgets, wi)
	e.touch()
	return removed, nil
}

// DuplicateWidget inserts a deep copy of the widget right after it, with a
// new id. Known types are migrated first.
func (e *PageEditor) DuplicateWidget(widgetID string) (WidgetInstance, error) {
	si, ri, wi, ok := e.doc.locateWidget(widgetID)
	if !ok {
		return WidgetInstance{}, notFound("widget", widgetID)
	}
	source := e.doc.Sections[si].Rows[ri].Widgets[wi]
	if cfg, ok := e.opts.Registry.Get(source.Type); ok {
		migrated, changed, err := MigrateInstance(cfg, source)
		if err != nil {
			return WidgetInstance{}, err
		}
		if changed {
			e.doc.Sections[si].Rows[ri].Widgets[wi] = migrated
			source = migrated
		}
	}
	dup := source.Clone()
	dup.ID = e.newID("widget")
	at := wi + 1
	widgets := e.doc.rowWidgets(si, ri)
	*widgets, _ = insertAt(*widgets, &at, dup)
	e.touch()
	return dup.Clone(), nil
}

// SetWidgetVisibility replaces the per-breakpoint visibility of a widget.
func (e *PageEditor) SetWidgetVisibility(widgetID string, visibility Visibility) error {
	si, ri, wi, ok := e.doc.locateWidget(widgetID)
	if !ok {
		return notFound("widget", widgetID)
	}
	e.doc.Sections[si].Rows[ri].Widgets[wi].Visibility = visibility
	e.touch()
	return nil
}

// SetWidgetColSpan overrides the widget column span; nil restores the type default.
func (e *PageEditor) SetWidgetColSpan(widgetID string, span *ColSpan) error {
	si, ri, wi, ok := e.doc.locateWidget(widgetID)
	if !ok {
		return notFound("widget", widgetID)
	}
	if span != nil && !span.valid() {
		return fmt.Errorf("pagebuilder: col span must be within 1..%d", MaxColumns)
	}
	var override *ColSpan
	if span != nil {
		copied := *span
		override = &copied
	}
	e.doc.Sections[si].Rows[ri].Widgets[wi].ColSpan = override
	e.touch()
	return nil
}

// SectionStyle carries the styling attributes of a section.
type SectionStyle struct {
	Background string `json:"background"`
	Padding    string `json:"padding"`
}

// AddSection inserts a new section holding one empty row.
func (e *PageEditor) AddSection(style SectionStyle, atIndex *int) (Section, error) {
	section := Section{
		ID:         e.newID("section"),
		Background: style.Background,
		Padding:    style.Padding,
		Rows:       []Row{{ID: e.newID("row"), Widgets: []WidgetInstance{}}},
	}
	e.doc.Sections, _ = insertAt(e.doc.Sections, atIndex, section)
	e.touch()
	return section, nil
}

// UpdateSection replaces the styling of a section.
func (e *PageEditor) UpdateSection(sectionID string, style SectionStyle) error {
	si, ok := e.doc.locateSection(sectionID)
	if !ok {
		return notFound("section", sectionID)
	}
	e.doc.Sections[si].Background = style.Background
	e.doc.Sections[si].Padding = style.Padding
	e.touch()
	return nil
}

// RemoveSection deletes a section and everything in it.
func (e *PageEditor) RemoveSection(sectionID string) error {
	si, ok := e.doc.locateSection(sectionID)
	if !ok {
		return notFound("section", sectionID)
	}
	e.doc.Sections, _ = removeAt(e.doc.Sections, si)
	e.touch()
	return nil
}

// MoveSection reorders a section.
func (e *PageEditor) MoveSection(sectionID string, atIndex *int) error {
	si, ok := e.doc.locateSection(sectionID)
	if !ok {
		return notFound("section", sectionID)
	}
	var section Section
	e.doc.Sections, section = removeAt(e.doc.Sections, si)
	e.doc.Sections, _ = insertAt(e.doc.Sections, atIndex, section)
	e.touch()
	return nil
}

// AddRow inserts an empty row into a section.
func (e *PageEditor) AddRow(sectionID string, atIndex *int) (Row, error) {
	si, ok := e.doc.locateSection(sectionID)
	if !ok {
		return Row{}, notFound("section", sectionID)
	}
	row := Row{ID: e.newID("row"), Widgets: []WidgetInstance{}}
	e.doc.Sections[si].Rows, _ = insertAt(e.doc.Sections[si].Rows, atIndex, row)
	e.touch()
	return row, nil
}

// RemoveRow deletes a row and its widgets.
func (e *PageEditor) RemoveRow(rowID string) error {
	si, ri, ok := e.doc.locateRow(rowID)
	if !ok {
		return notFound("row", rowID)
	}
	e.doc.Sections[si].Rows, _ = removeAt(e.doc.Sections[si].Rows, ri)
	e.touch()
	return nil
}

// MoveRow moves a row into a section (possibly the same one).
func (e *PageEditor) MoveRow(rowID, toSectionID string, atIndex *int) error {
	si, ri, ok := e.doc.locateRow(rowID)
	if !ok {
		return notFound("row", rowID)
	}
	if _, ok := e.doc.locateSection(toSectionID); !ok {
		return notFound("section", toSectionID)
	}
	var row Row
	e.doc.Sections[si].Rows, row = removeAt(e.doc.Sections[si].Rows, ri)
	ti, _ := e.doc.locateSection(toSectionID)
	e.doc.Sections[ti].Rows, _ = insertAt(e.doc.Sections[ti].Rows, atIndex, row)
	e.touch()
	return nil
}

// MetaInput updates page metadata. Nil fields are left unchanged.
type MetaInput struct {
	Title          *string `json:"title,omitempty"`
	Slug           *string `json:"slug,omitempty"`
	SEOTitle       *string `json:"seo_title,omitempty"`
	SEODescription *string `json:"seo_description,omitempty"`
}

// UpdateMeta applies metadata changes. Slugs are normalized to kebab case.
func (e *PageEditor) UpdateMeta(in MetaInput) error {
	meta := e.doc.Meta
	if in.Title != nil {
		meta.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		slug := NormalizeSlug(*in.Slug)
		if slug == "" {
			return errors.New("pagebuilder: slug cannot be empty")
		}
		meta.Slug = slug
	}
	if in.SEOTitle != nil {
		meta.SEOTitle = strings.TrimSpace(*in.SEOTitle)
	}
	if in.SEODescription != nil {
		meta.SEODescription = strings.TrimSpace(*in.SEODescription)
	}
	e.doc.Meta = meta
	e.touch()
	return nil
}

// Publish makes the page servable on the storefront. Publishing a published
// page is a no-op.
func (e *PageEditor) Publish() {
	if e.doc.Meta.Status == StatusPublished {
		return
	}
	now := e.opts.Now().UTC()
	e.doc.Meta.Status = StatusPublished
	e.doc.PublishedAt = &now
	e.touch()
}

// Unpublish returns the page to draft.
func (e *PageEditor) Unpublish() {
	if e.doc.Meta.Status == StatusDraft {
		return
	}
	e.doc.Meta.Status = StatusDraft
	e.doc.PublishedAt = nil
	e.touch()
}

// Form builds the property editor for a widget, migrating it first.
func (e *PageEditor) Form(widgetID, locale string, fieldErrors []FieldError) (EditorForm, error) {
	instance, err := e.MigrateWidget(widgetID)
	if err != nil {
		return EditorForm{}, err
	}
	cfg, _ := e.opts.Registry.Get(instance.Type)
	editor := cfg.Editor
	if editor == nil {
		editor = DefaultEditor
	}
	return editor(EditorInput{
		Config:   cfg,
		Instance: instance,
		Errors:   fieldErrors,
		Locale:   locale,
	}), nil
}

func (e *PageEditor) newID(kind string) string {
	for {
		id := e.opts.IDs.NewID(kind)
		if !e.doc.hasID(id) {
			return id
		}
	}
}

func (e *PageEditor) touch() {
	e.doc.UpdatedAt = e.opts.Now().UTC()
}

// NormalizeSlug lowercases and kebab-cases a slug ("About Us" -> "about-us").
func NormalizeSlug(slug string) string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(slug), "/"), "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strcase.ToKebab(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, "/")
}
