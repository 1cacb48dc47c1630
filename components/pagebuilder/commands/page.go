package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type pageService interface {
	CreatePage(ctx context.Context, req pagebuilder.CreatePageRequest) (*pagebuilder.PageDocument, error)
	SavePage(ctx context.Context, doc *pagebuilder.PageDocument, expectedRevision int64) (*pagebuilder.PageDocument, error)
	DeletePage(ctx context.Context, ref pagebuilder.PageRef) error
}

// CreatePageInput creates a page from a template. Result receives the saved page.
type CreatePageInput struct {
	pagebuilder.CreatePageRequest
	Result *pagebuilder.PageDocument `json:"-" validate:"-"`
}

// CreatePageCommand starts new pages.
type CreatePageCommand struct {
	service   pageService
	telemetry Telemetry
}

// NewCreatePageCommand creates a command instance.
func NewCreatePageCommand(service pageService, telemetry Telemetry) *CreatePageCommand {
	return &CreatePageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreatePageInput] = (*CreatePageCommand)(nil)

// Execute validates the input and delegates to the service.
func (c *CreatePageCommand) Execute(ctx context.Context, msg CreatePageInput) error {
	if c.service == nil {
		return errors.New("create page command requires service")
	}
	if err := ValidateInput(msg.CreatePageRequest); err != nil {
		return err
	}
	doc, err := c.service.CreatePage(ctx, msg.CreatePageRequest)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = *doc
	}
	c.telemetry.Record(ctx, "pagebuilder.command.create_page", map[string]any{
		"store_id": doc.StoreID,
		"page_id":  doc.ID,
	})
	return nil
}

// SavePageInput replaces a whole document.
type SavePageInput struct {
	Document         *pagebuilder.PageDocument `json:"document" validate:"required"`
	ExpectedRevision int64                     `json:"expected_revision" validate:"gte=0"`
	Result           *pagebuilder.PageDocument `json:"-" validate:"-"`
}

// SavePageCommand persists documents edited by a host.
type SavePageCommand struct {
	service   pageService
	telemetry Telemetry
}

// NewSavePageCommand creates a command instance.
func NewSavePageCommand(service pageService, telemetry Telemetry) *SavePageCommand {
	return &SavePageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePageInput] = (*SavePageCommand)(nil)

// Execute delegates to the service.
func (c *SavePageCommand) Execute(ctx context.Context, msg SavePageInput) error {
	if c.service == nil {
		return errors.New("save page command requires service")
	}
	if err := ValidateInput(msg); err != nil {
		return err
	}
	doc, err := c.service.SavePage(ctx, msg.Document, msg.ExpectedRevision)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = *doc
	}
	c.telemetry.Record(ctx, "pagebuilder.command.save_page", map[string]any{
		"page_id":  doc.ID,
		"revision": doc.Revision,
	})
	return nil
}

// DeletePageCommand removes pages.
type DeletePageCommand struct {
	service   pageService
	telemetry Telemetry
}

// NewDeletePageCommand creates a command instance.
func NewDeletePageCommand(service pageService, telemetry Telemetry) *DeletePageCommand {
	return &DeletePageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[pagebuilder.PageRef] = (*DeletePageCommand)(nil)

// Execute delegates to the service.
func (c *DeletePageCommand) Execute(ctx context.Context, msg pagebuilder.PageRef) error {
	if c.service == nil {
		return errors.New("delete page command requires service")
	}
	if err := ValidateInput(msg); err != nil {
		return err
	}
	if err := c.service.DeletePage(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "pagebuilder.command.delete_page", map[string]any{"page_id": msg.PageID})
	return nil
}
