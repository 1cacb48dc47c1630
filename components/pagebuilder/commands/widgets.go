package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type widgetService interface {
	AddWidget(ctx context.Context, req pagebuilder.AddWidgetRequest) (pagebuilder.WidgetInstance, error)
	MoveWidget(ctx context.Context, req pagebuilder.MoveWidgetRequest) error
	UpdateWidgetProps(ctx context.Context, req pagebuilder.UpdateWidgetPropsRequest) (pagebuilder.WidgetInstance, error)
	RemoveWidget(ctx context.Context, req pagebuilder.WidgetRequest) error
	DuplicateWidget(ctx context.Context, req pagebuilder.WidgetRequest) (pagebuilder.WidgetInstance, error)
}

// AddWidgetInput places a widget. Result receives the new instance.
type AddWidgetInput struct {
	pagebuilder.AddWidgetRequest
	Result *pagebuilder.WidgetInstance `json:"-" validate:"-"`
}

// AddWidgetCommand wraps Service.AddWidget so transports can place widgets
// without linking directly against the service.
type AddWidgetCommand struct {
	service   widgetService
	telemetry Telemetry
}

// NewAddWidgetCommand creates a command instance.
func NewAddWidgetCommand(service widgetService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute delegates to the page builder service.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.service == nil {
		return errors.New("add widget command requires service")
	}
	if err := ValidateInput(msg.AddWidgetRequest); err != nil {
		return err
	}
	instance, err := c.service.AddWidget(ctx, msg.AddWidgetRequest)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = instance
	}
	c.telemetry.Record(ctx, "pagebuilder.command.add_widget", map[string]any{
		"page_id":   msg.PageID,
		"widget_id": instance.ID,
		"type":      string(msg.Type),
	})
	return nil
}

// MoveWidgetCommand reorders widgets.
type MoveWidgetCommand struct {
	service   widgetService
	telemetry Telemetry
}

// NewMoveWidgetCommand creates a command instance.
func NewMoveWidgetCommand(service widgetService, telemetry Telemetry) *MoveWidgetCommand {
	return &MoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[pagebuilder.MoveWidgetRequest] = (*MoveWidgetCommand)(nil)

// Execute delegates to the service.
func (c *MoveWidgetCommand) Execute(ctx context.Context, msg pagebuilder.MoveWidgetRequest) error {
	if c.service == nil {
		return errors.New("move widget command requires service")
	}
	if err := ValidateInput(msg); err != nil {
		return err
	}
	if err := c.service.MoveWidget(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "pagebuilder.command.move_widget", map[string]any{
		"page_id":   msg.PageID,
		"widget_id": msg.WidgetID,
		"to_row_id": msg.ToRowID,
	})
	return nil
}

// UpdateWidgetPropsInput merges props. Result receives the updated instance.
type UpdateWidgetPropsInput struct {
	pagebuilder.UpdateWidgetPropsRequest
	Result *pagebuilder.WidgetInstance `json:"-" validate:"-"`
}

// UpdateWidgetPropsCommand applies validated prop edits.
type UpdateWidgetPropsCommand struct {
	service   widgetService
	telemetry Telemetry
}

// NewUpdateWidgetPropsCommand creates a command instance.
func NewUpdateWidgetPropsCommand(service widgetService, telemetry Telemetry) *UpdateWidgetPropsCommand {
	return &UpdateWidgetPropsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetPropsInput] = (*UpdateWidgetPropsCommand)(nil)

// Execute delegates to the service.
func (c *UpdateWidgetPropsCommand) Execute(ctx context.Context, msg UpdateWidgetPropsInput) error {
	if c.service == nil {
		return errors.New("update widget props command requires service")
	}
	if err := ValidateInput(msg.UpdateWidgetPropsRequest); err != nil {
		return err
	}
	instance, err := c.service.UpdateWidgetProps(ctx, msg.UpdateWidgetPropsRequest)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = instance
	}
	c.telemetry.Record(ctx, "pagebuilder.command.update_widget", map[string]any{
		"page_id":   msg.PageID,
		"widget_id": msg.WidgetID,
		"fields":    len(msg.Props),
	})
	return nil
}

// RemoveWidgetCommand deletes widgets.
type RemoveWidgetCommand struct {
	service   widgetService
	telemetry Telemetry
}

// NewRemoveWidgetCommand creates a command instance.
func NewRemoveWidgetCommand(service widgetService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[pagebuilder.WidgetRequest] = (*RemoveWidgetCommand)(nil)

// Execute delegates to the service.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg pagebuilder.WidgetRequest) error {
	if c.service == nil {
		return errors.New("remove widget command requires service")
	}
	if err := ValidateInput(msg); err != nil {
		return err
	}
	if err := c.service.RemoveWidget(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "pagebuilder.command.remove_widget", map[string]any{
		"page_id":   msg.PageID,
		"widget_id": msg.WidgetID,
	})
	return nil
}

// DuplicateWidgetInput copies a widget. Result receives the copy.
type DuplicateWidgetInput struct {
	pagebuilder.WidgetRequest
	Result *pagebuilder.WidgetInstance `json:"-" validate:"-"`
}

// DuplicateWidgetCommand copies widgets next to their source.
type DuplicateWidgetCommand struct {
	service   widgetService
	telemetry Telemetry
}

// NewDuplicateWidgetCommand creates a command instance.
func NewDuplicateWidgetCommand(service widgetService, telemetry Telemetry) *DuplicateWidgetCommand {
	return &DuplicateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DuplicateWidgetInput] = (*DuplicateWidgetCommand)(nil)

// Execute delegates to the service.
func (c *DuplicateWidgetCommand) Execute(ctx context.Context, msg DuplicateWidgetInput) error {
	if c.service == nil {
		return errors.New("duplicate widget command requires service")
	}
	if err := ValidateInput(msg.WidgetRequest); err != nil {
		return err
	}
	dup, err := c.service.DuplicateWidget(ctx, msg.WidgetRequest)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = dup
	}
	c.telemetry.Record(ctx, "pagebuilder.command.duplicate_widget", map[string]any{
		"page_id":   msg.PageID,
		"source_id": msg.WidgetID,
		"widget_id": dup.ID,
	})
	return nil
}
