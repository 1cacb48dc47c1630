package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/commands"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/queries"
)

// Executor is the transport-facing surface of the page builder. Both the
// net/http handlers and the go-router adapter talk to it.
type Executor interface {
	CreatePage(ctx context.Context, req pagebuilder.CreatePageRequest) (*pagebuilder.PageDocument, error)
	SavePage(ctx context.Context, input commands.SavePageInput) (*pagebuilder.PageDocument, error)
	DeletePage(ctx context.Context, ref pagebuilder.PageRef) error
	SetStatus(ctx context.Context, input commands.SetPageStatusInput) (*pagebuilder.PageDocument, error)
	AddWidget(ctx context.Context, req pagebuilder.AddWidgetRequest) (pagebuilder.WidgetInstance, error)
	MoveWidget(ctx context.Context, req pagebuilder.MoveWidgetRequest) error
	UpdateWidgetProps(ctx context.Context, req pagebuilder.UpdateWidgetPropsRequest) (pagebuilder.WidgetInstance, error)
	RemoveWidget(ctx context.Context, req pagebuilder.WidgetRequest) error
	DuplicateWidget(ctx context.Context, req pagebuilder.WidgetRequest) (pagebuilder.WidgetInstance, error)
	Refresh(ctx context.Context, input commands.RefreshPageInput) error

	Page(ctx context.Context, ref pagebuilder.PageRef) (*pagebuilder.PageDocument, error)
	Pages(ctx context.Context, input queries.PageListInput) ([]pagebuilder.PageSummary, error)
	Render(ctx context.Context, input queries.RenderPageInput) (pagebuilder.RenderedPage, error)
	Storefront(ctx context.Context, input queries.StorefrontInput) (pagebuilder.RenderedPage, error)
	Palette(ctx context.Context, input queries.PaletteInput) ([]pagebuilder.PaletteItem, error)
	Templates(ctx context.Context) ([]pagebuilder.PageTemplate, error)
	WidgetForm(ctx context.Context, input queries.WidgetFormInput) (pagebuilder.EditorForm, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	CreateCommander    gocommand.Commander[commands.CreatePageInput]
	SaveCommander      gocommand.Commander[commands.SavePageInput]
	DeleteCommander    gocommand.Commander[pagebuilder.PageRef]
	StatusCommander    gocommand.Commander[commands.SetPageStatusInput]
	AddCommander       gocommand.Commander[commands.AddWidgetInput]
	MoveCommander      gocommand.Commander[pagebuilder.MoveWidgetRequest]
	UpdateCommander    gocommand.Commander[commands.UpdateWidgetPropsInput]
	RemoveCommander    gocommand.Commander[pagebuilder.WidgetRequest]
	DuplicateCommander gocommand.Commander[commands.DuplicateWidgetInput]
	RefreshCommander   gocommand.Commander[commands.RefreshPageInput]

	PageQuerier       gocommand.Querier[pagebuilder.PageRef, *pagebuilder.PageDocument]
	PagesQuerier      gocommand.Querier[queries.PageListInput, []pagebuilder.PageSummary]
	RenderQuerier     gocommand.Querier[queries.RenderPageInput, pagebuilder.RenderedPage]
	StorefrontQuerier gocommand.Querier[queries.StorefrontInput, pagebuilder.RenderedPage]
	PaletteQuerier    gocommand.Querier[queries.PaletteInput, []pagebuilder.PaletteItem]
	TemplatesQuerier  gocommand.Querier[struct{}, []pagebuilder.PageTemplate]
	FormQuerier       gocommand.Querier[queries.WidgetFormInput, pagebuilder.EditorForm]
}

var _ Executor = (*CommandExecutor)(nil)

// ServiceDependencies is everything NewCommandExecutor needs from the service.
type ServiceDependencies interface {
	CreatePage(ctx context.Context, req pagebuilder.CreatePageRequest) (*pagebuilder.PageDocument, error)
	SavePage(ctx context.Context, doc *pagebuilder.PageDocument, expectedRevision int64) (*pagebuilder.PageDocument, error)
	DeletePage(ctx context.Context, ref pagebuilder.PageRef) error
	Publish(ctx context.Context, req pagebuilder.EditRequest) (*pagebuilder.PageDocument, error)
	Unpublish(ctx context.Context, req pagebuilder.EditRequest) (*pagebuilder.PageDocument, error)
	AddWidget(ctx context.Context, req pagebuilder.AddWidgetRequest) (pagebuilder.WidgetInstance, error)
	MoveWidget(ctx context.Context, req pagebuilder.MoveWidgetRequest) error
	UpdateWidgetProps(ctx context.Context, req pagebuilder.UpdateWidgetPropsRequest) (pagebuilder.WidgetInstance, error)
	RemoveWidget(ctx context.Context, req pagebuilder.WidgetRequest) error
	DuplicateWidget(ctx context.Context, req pagebuilder.WidgetRequest) (pagebuilder.WidgetInstance, error)
	NotifyPageUpdated(ctx context.Context, event pagebuilder.PageEvent) error
	Page(ctx context.Context, ref pagebuilder.PageRef) (*pagebuilder.PageDocument, error)
	Pages(ctx context.Context, storeID string) ([]pagebuilder.PageSummary, error)
	RenderPage(ctx context.Context, ref pagebuilder.PageRef, overrides pagebuilder.ThemeTokens) (pagebuilder.RenderedPage, error)
	RenderStorefront(ctx context.Context, storeID, slug string, overrides pagebuilder.ThemeTokens) (pagebuilder.RenderedPage, error)
	Palette(locale, category string) []pagebuilder.PaletteItem
	Templates() []pagebuilder.PageTemplate
	WidgetForm(ctx context.Context, ref pagebuilder.PageRef, widgetID, locale string) (pagebuilder.EditorForm, error)
}

// NewCommandExecutor wires every command and query against one service.
func NewCommandExecutor(service ServiceDependencies, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		CreateCommander:    commands.NewCreatePageCommand(service, telemetry),
		SaveCommander:      commands.NewSavePageCommand(service, telemetry),
		DeleteCommander:    commands.NewDeletePageCommand(service, telemetry),
		StatusCommander:    commands.NewSetPageStatusCommand(service, telemetry),
		AddCommander:       commands.NewAddWidgetCommand(service, telemetry),
		MoveCommander:      commands.NewMoveWidgetCommand(service, telemetry),
		UpdateCommander:    commands.NewUpdateWidgetPropsCommand(service, telemetry),
		RemoveCommander:    commands.NewRemoveWidgetCommand(service, telemetry),
		DuplicateCommander: commands.NewDuplicateWidgetCommand(service, telemetry),
		RefreshCommander:   commands.NewRefreshPageCommand(service, telemetry),
		PageQuerier:        queries.NewPageQuery(service),
		PagesQuerier:       queries.NewPageListQuery(service),
		RenderQuerier:      queries.NewRenderPageQuery(service),
		StorefrontQuerier:  queries.NewStorefrontQuery(service),
		PaletteQuerier:     queries.NewPaletteQuery(service),
		TemplatesQuerier:   queries.NewTemplatesQuery(service),
		FormQuerier:        queries.NewWidgetFormQuery(service),
	}
}

var errNotConfigured = errors.New("httpapi: operation not configured")

func (e *CommandExecutor) CreatePage(ctx context.Context, req pagebuilder.CreatePageRequest) (*pagebuilder.PageDocument, error) {
	if e.CreateCommander == nil {
		return nil, errNotConfigured
	}
	var doc pagebuilder.PageDocument
	if err := e.CreateCommander.Execute(ctx, commands.CreatePageInput{CreatePageRequest: req, Result: &doc}); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (e *CommandExecutor) SavePage(ctx context.Context, input commands.SavePageInput) (*pagebuilder.PageDocument, error) {
	if e.SaveCommander == nil {
		return nil, errNotConfigured
	}
	var doc pagebuilder.PageDocument
	input.Result = &doc
	if err := e.SaveCommander.Execute(ctx, input); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (e *CommandExecutor) DeletePage(ctx context.Context, ref pagebuilder.PageRef) error {
	if e.DeleteCommander == nil {
		return errNotConfigured
	}
	return e.DeleteCommander.Execute(ctx, ref)
}

func (e *CommandExecutor) SetStatus(ctx context.Context, input commands.SetPageStatusInput) (*pagebuilder.PageDocument, error) {
	if e.StatusCommander == nil {
		return nil, errNotConfigured
	}
	var doc pagebuilder.PageDocument
	input.Result = &doc
	if err := e.StatusCommander.Execute(ctx, input); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (e *CommandExecutor) AddWidget(ctx context.Context, req pagebuilder.AddWidgetRequest) (pagebuilder.WidgetInstance, error) {
	if e.AddCommander == nil {
		return pagebuilder.WidgetInstance{}, errNotConfigured
	}
	var out pagebuilder.WidgetInstance
	err := e.AddCommander.Execute(ctx, commands.AddWidgetInput{AddWidgetRequest: req, Result: &out})
	return out, err
}

func (e *CommandExecutor) MoveWidget(ctx context.Context, req pagebuilder.MoveWidgetRequest) error {
	if e.MoveCommander == nil {
		return errNotConfigured
	}
	return e.MoveCommander.Execute(ctx, req)
}

func (e *CommandExecutor) UpdateWidgetProps(ctx context.Context, req pagebuilder.UpdateWidgetPropsRequest) (pagebuilder.WidgetInstance, error) {
	if e.UpdateCommander == nil {
		return pagebuilder.WidgetInstance{}, errNotConfigured
	}
	var out pagebuilder.WidgetInstance
	err := e.UpdateCommander.Execute(ctx, commands.UpdateWidgetPropsInput{UpdateWidgetPropsRequest: req, Result: &out})
	return out, err
}

func (e *CommandExecutor) RemoveWidget(ctx context.Context, req pagebuilder.WidgetRequest) error {
	if e.RemoveCommander == nil {
		return errNotConfigured
	}
	return e.RemoveCommander.Execute(ctx, req)
}

func (e *CommandExecutor) DuplicateWidget(ctx context.Context, req pagebuilder.WidgetRequest) (pagebuilder.WidgetInstance, error) {
	if e.DuplicateCommander == nil {
		return pagebuilder.WidgetInstance{}, errNotConfigured
	}
	var out pagebuilder.WidgetInstance
	err := e.DuplicateCommander.Execute(ctx, commands.DuplicateWidgetInput{WidgetRequest: req, Result: &out})
	return out, err
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshPageInput) error {
	if e.RefreshCommander == nil {
		return errNotConfigured
	}
	return e.RefreshCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Page(ctx context.Context, ref pagebuilder.PageRef) (*pagebuilder.PageDocument, error) {
	if e.PageQuerier == nil {
		return nil, errNotConfigured
	}
	return e.PageQuerier.Query(ctx, ref)
}

func (e *CommandExecutor) Pages(ctx context.Context, input queries.PageListInput) ([]pagebuilder.PageSummary, error) {
	if e.PagesQuerier == nil {
		return nil, errNotConfigured
	}
	return e.PagesQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Render(ctx context.Context, input queries.RenderPageInput) (pagebuilder.RenderedPage, error) {
	if e.RenderQuerier == nil {
		return pagebuilder.RenderedPage{}, errNotConfigured
	}
	return e.RenderQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Storefront(ctx context.Context, input queries.StorefrontInput) (pagebuilder.RenderedPage, error) {
	if e.StorefrontQuerier == nil {
		return pagebuilder.RenderedPage{}, errNotConfigured
	}
	return e.StorefrontQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Palette(ctx context.Context, input queries.PaletteInput) ([]pagebuilder.PaletteItem, error) {
	if e.PaletteQuerier == nil {
		return nil, errNotConfigured
	}
	return e.PaletteQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Templates(ctx context.Context) ([]pagebuilder.PageTemplate, error) {
	if e.TemplatesQuerier == nil {
		return nil, errNotConfigured
	}
	return e.TemplatesQuerier.Query(ctx, struct{}{})
}

func (e *CommandExecutor) WidgetForm(ctx context.Context, input queries.WidgetFormInput) (pagebuilder.EditorForm, error) {
	if e.FormQuerier == nil {
		return pagebuilder.EditorForm{}, errNotConfigured
	}
	return e.FormQuerier.Query(ctx, input)
}
