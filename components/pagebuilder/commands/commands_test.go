package commands

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/widgets"
)

func TestValidateInputUsesJSONFieldNames(t *testing.T) {
	err := ValidateInput(pagebuilder.CreatePageRequest{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %T", err)
	}
	if got := fieldNames(inputErr); !reflect.DeepEqual(got, []string{"store_id", "title"}) {
		t.Fatalf("unexpected fields %v", got)
	}
	if inputErr.Fields[0].Reason != "is required" {
		t.Fatalf("unexpected reason %q", inputErr.Fields[0].Reason)
	}
}

func TestValidateInputStatus(t *testing.T) {
	err := ValidateInput(SetPageStatusInput{
		EditRequest: pagebuilder.EditRequest{PageRef: pagebuilder.PageRef{StoreID: "store-1", PageID: "page-1"}},
		Status:      "archived",
	})
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if len(inputErr.Fields) != 1 || inputErr.Fields[0].Field != "status" {
		t.Fatalf("unexpected fields %#v", inputErr.Fields)
	}
	if inputErr.Fields[0].Reason != "must be one of: draft published" {
		t.Fatalf("unexpected reason %q", inputErr.Fields[0].Reason)
	}
}

func TestCommandsRequireService(t *testing.T) {
	ctx := context.Background()
	checks := map[string]error{
		"create":    NewCreatePageCommand(nil, nil).Execute(ctx, CreatePageInput{}),
		"save":      NewSavePageCommand(nil, nil).Execute(ctx, SavePageInput{}),
		"delete":    NewDeletePageCommand(nil, nil).Execute(ctx, pagebuilder.PageRef{}),
		"status":    NewSetPageStatusCommand(nil, nil).Execute(ctx, SetPageStatusInput{}),
		"refresh":   NewRefreshPageCommand(nil, nil).Execute(ctx, RefreshPageInput{}),
		"add":       NewAddWidgetCommand(nil, nil).Execute(ctx, AddWidgetInput{}),
		"move":      NewMoveWidgetCommand(nil, nil).Execute(ctx, pagebuilder.MoveWidgetRequest{}),
		"update":    NewUpdateWidgetPropsCommand(nil, nil).Execute(ctx, UpdateWidgetPropsInput{}),
		"remove":    NewRemoveWidgetCommand(nil, nil).Execute(ctx, pagebuilder.WidgetRequest{}),
		"duplicate": NewDuplicateWidgetCommand(nil, nil).Execute(ctx, DuplicateWidgetInput{}),
	}
	for name, err := range checks {
		if err == nil {
			t.Fatalf("%s: expected missing service error", name)
		}
	}
}

func TestInvalidInputNeverReachesService(t *testing.T) {
	service := &stubService{}
	ctx := context.Background()
	if err := NewAddWidgetCommand(service, nil).Execute(ctx, AddWidgetInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if err := NewRemoveWidgetCommand(service, nil).Execute(ctx, pagebuilder.WidgetRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if err := NewSavePageCommand(service, nil).Execute(ctx, SavePageInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if service.calls != 0 {
		t.Fatalf("expected service untouched, got %d calls", service.calls)
	}
}

func TestSetPageStatusCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewSetPageStatusCommand(service, telemetry)
	ref := pagebuilder.EditRequest{PageRef: pagebuilder.PageRef{StoreID: "store-1", PageID: "page-1"}}

	var result pagebuilder.PageDocument
	if err := cmd.Execute(context.Background(), SetPageStatusInput{EditRequest: ref, Status: pagebuilder.StatusPublished, Result: &result}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.published != 1 || result.Meta.Status != pagebuilder.StatusPublished {
		t.Fatalf("expected publish, got %#v", result.Meta)
	}
	if err := cmd.Execute(context.Background(), SetPageStatusInput{EditRequest: ref, Status: pagebuilder.StatusDraft}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.unpublished != 1 {
		t.Fatalf("expected unpublish")
	}
	if telemetry.last != "pagebuilder.command.set_status" || telemetry.payload["status"] != "draft" {
		t.Fatalf("unexpected telemetry %s %#v", telemetry.last, telemetry.payload)
	}
}

func TestRefreshPageCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRefreshPageCommand(service, nil)
	err := cmd.Execute(context.Background(), RefreshPageInput{})
	var inputErr *InputError
	if !errors.As(err, &inputErr) || inputErr.Fields[0].Field != "store_id" {
		t.Fatalf("expected store_id error, got %v", err)
	}
	event := pagebuilder.PageEvent{StoreID: "store-1", Reason: "theme"}
	if err := cmd.Execute(context.Background(), RefreshPageInput{Event: event}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.refreshed != event {
		t.Fatalf("expected event forwarded, got %#v", service.refreshed)
	}

	service.err = errors.New("hook down")
	if err := cmd.Execute(context.Background(), RefreshPageInput{Event: event}); err == nil {
		t.Fatalf("expected service error")
	}
}

func TestWidgetCommandsAgainstService(t *testing.T) {
	reg := pagebuilder.NewRegistry(pagebuilder.RegistryOptions{})
	if err := widgets.Register(reg); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	service := pagebuilder.NewService(pagebuilder.Options{
		Registry:  reg,
		PageStore: pagebuilder.NewInMemoryPageStore(),
		IDs:       &pagebuilder.SequenceGenerator{},
	})
	telemetry := &stubTelemetry{}
	ctx := context.Background()

	var page pagebuilder.PageDocument
	if err := NewCreatePageCommand(service, telemetry).Execute(ctx, CreatePageInput{
		CreatePageRequest: pagebuilder.CreatePageRequest{StoreID: "store-1", Title: "Spring Sale"},
		Result:            &page,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if page.Meta.Slug != "spring-sale" || len(page.Sections) != 1 || len(page.Sections[0].Rows) != 1 {
		t.Fatalf("unexpected page %#v", page)
	}
	edit := pagebuilder.EditRequest{PageRef: pagebuilder.PageRef{StoreID: "store-1", PageID: page.ID}}
	rowID := page.Sections[0].Rows[0].ID

	var added pagebuilder.WidgetInstance
	if err := NewAddWidgetCommand(service, telemetry).Execute(ctx, AddWidgetInput{
		AddWidgetRequest: pagebuilder.AddWidgetRequest{EditRequest: edit, RowID: rowID, Type: widgets.TypeButton},
		Result:           &added,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" || added.Props["label"] != "Click me" {
		t.Fatalf("unexpected widget %#v", added)
	}
	if telemetry.last != "pagebuilder.command.add_widget" || telemetry.payload["widget_id"] != added.ID {
		t.Fatalf("unexpected telemetry %s %#v", telemetry.last, telemetry.payload)
	}

	var updated pagebuilder.WidgetInstance
	if err := NewUpdateWidgetPropsCommand(service, telemetry).Execute(ctx, UpdateWidgetPropsInput{
		UpdateWidgetPropsRequest: pagebuilder.UpdateWidgetPropsRequest{EditRequest: edit, WidgetID: added.ID, Props: pagebuilder.Props{"label": "Buy"}},
		Result:                   &updated,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Props["label"] != "Buy" || updated.Props["size"] != "md" {
		t.Fatalf("expected merged props, got %#v", updated.Props)
	}
	err := NewUpdateWidgetPropsCommand(service, nil).Execute(ctx, UpdateWidgetPropsInput{
		UpdateWidgetPropsRequest: pagebuilder.UpdateWidgetPropsRequest{EditRequest: edit, WidgetID: added.ID, Props: pagebuilder.Props{"size": "huge"}},
	})
	if !errors.Is(err, pagebuilder.ErrSchemaValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var dup pagebuilder.WidgetInstance
	if err := NewDuplicateWidgetCommand(service, nil).Execute(ctx, DuplicateWidgetInput{
		WidgetRequest: pagebuilder.WidgetRequest{EditRequest: edit, WidgetID: added.ID},
		Result:        &dup,
	}); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == added.ID || dup.Props["label"] != "Buy" {
		t.Fatalf("unexpected duplicate %#v", dup)
	}
	if err := NewRemoveWidgetCommand(service, nil).Execute(ctx, pagebuilder.WidgetRequest{EditRequest: edit, WidgetID: added.ID}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	var published pagebuilder.PageDocument
	if err := NewSetPageStatusCommand(service, nil).Execute(ctx, SetPageStatusInput{EditRequest: edit, Status: pagebuilder.StatusPublished, Result: &published}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Meta.Status != pagebuilder.StatusPublished || published.WidgetCount() != 1 {
		t.Fatalf("unexpected published page %#v", published.Meta)
	}

	stale := SavePageInput{Document: &published, ExpectedRevision: published.Revision - 1}
	if err := NewSavePageCommand(service, nil).Execute(ctx, stale); !errors.Is(err, pagebuilder.ErrRevisionConflict) {
		t.Fatalf("expected revision conflict, got %v", err)
	}
	if err := NewDeletePageCommand(service, nil).Execute(ctx, edit.PageRef); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.Page(ctx, edit.PageRef); !errors.Is(err, pagebuilder.ErrNotFound) {
		t.Fatalf("expected page deleted, got %v", err)
	}
}

func fieldNames(err *InputError) []string {
	names := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		names = append(names, f.Field)
	}
	return names
}

type stubService struct {
	calls       int
	published   int
	unpublished int
	refreshed   pagebuilder.PageEvent
	err         error
}

func (s *stubService) doc(status pagebuilder.PageStatus) *pagebuilder.PageDocument {
	return &pagebuilder.PageDocument{ID: "page-1", StoreID: "store-1", Meta: pagebuilder.PageMeta{Status: status}}
}

func (s *stubService) CreatePage(context.Context, pagebuilder.CreatePageRequest) (*pagebuilder.PageDocument, error) {
	s.calls++
	return s.doc(pagebuilder.StatusDraft), s.err
}

func (s *stubService) SavePage(_ context.Context, doc *pagebuilder.PageDocument, _ int64) (*pagebuilder.PageDocument, error) {
	s.calls++
	return doc, s.err
}

func (s *stubService) DeletePage(context.Context, pagebuilder.PageRef) error {
	s.calls++
	return s.err
}

func (s *stubService) Publish(context.Context, pagebuilder.EditRequest) (*pagebuilder.PageDocument, error) {
	s.calls++
	s.published++
	return s.doc(pagebuilder.StatusPublished), s.err
}

func (s *stubService) Unpublish(context.Context, pagebuilder.EditRequest) (*pagebuilder.PageDocument, error) {
	s.calls++
	s.unpublished++
	return s.doc(pagebuilder.StatusDraft), s.err
}

func (s *stubService) NotifyPageUpdated(_ context.Context, event pagebuilder.PageEvent) error {
	s.calls++
	s.refreshed = event
	return s.err
}

func (s *stubService) AddWidget(context.Context, pagebuilder.AddWidgetRequest) (pagebuilder.WidgetInstance, error) {
	s.calls++
	return pagebuilder.WidgetInstance{ID: "widget-1"}, s.err
}

func (s *stubService) MoveWidget(context.Context, pagebuilder.MoveWidgetRequest) error {
	s.calls++
	return s.err
}

func (s *stubService) UpdateWidgetProps(context.Context, pagebuilder.UpdateWidgetPropsRequest) (pagebuilder.WidgetInstance, error) {
	s.calls++
	return pagebuilder.WidgetInstance{ID: "widget-1"}, s.err
}

func (s *stubService) RemoveWidget(context.Context, pagebuilder.WidgetRequest) error {
	s.calls++
	return s.err
}

func (s *stubService) DuplicateWidget(context.Context, pagebuilder.WidgetRequest) (pagebuilder.WidgetInstance, error) {
	s.calls++
	return pagebuilder.WidgetInstance{ID: "widget-2"}, s.err
}

type stubTelemetry struct {
	calls   int
	last    string
	payload map[string]any
}

func (s *stubTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	s.calls++
	s.last = event
	s.payload = payload
}
