package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type publishService interface {
	Publish(ctx context.Context, req pagebuilder.EditRequest) (*pagebuilder.PageDocument, error)
	Unpublish(ctx context.Context, req pagebuilder.EditRequest) (*pagebuilder.PageDocument, error)
}

// SetPageStatusInput moves a page between draft and published.
type SetPageStatusInput struct {
	pagebuilder.EditRequest
	Status pagebuilder.PageStatus    `json:"status" validate:"required,oneof=draft published"`
	Result *pagebuilder.PageDocument `json:"-" validate:"-"`
}

// SetPageStatusCommand publishes and unpublishes pages.
type SetPageStatusCommand struct {
	service   publishService
	telemetry Telemetry
}

// NewSetPageStatusCommand creates a command instance.
func NewSetPageStatusCommand(service publishService, telemetry Telemetry) *SetPageStatusCommand {
	return &SetPageStatusCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetPageStatusInput] = (*SetPageStatusCommand)(nil)

// Execute delegates to Publish or Unpublish.
func (c *SetPageStatusCommand) Execute(ctx context.Context, msg SetPageStatusInput) error {
	if c.service == nil {
		return errors.New("page status command requires service")
	}
	if err := ValidateInput(msg); err != nil {
		return err
	}
	var (
		doc *pagebuilder.PageDocument
		err error
	)
	if msg.Status == pagebuilder.StatusPublished {
		doc, err = c.service.Publish(ctx, msg.EditRequest)
	} else {
		doc, err = c.service.Unpublish(ctx, msg.EditRequest)
	}
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = *doc
	}
	c.telemetry.Record(ctx, "pagebuilder.command.set_status", map[string]any{
		"page_id": msg.PageID,
		"status":  string(msg.Status),
	})
	return nil
}
