package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type refreshService interface {
	NotifyPageUpdated(ctx context.Context, event pagebuilder.PageEvent) error
}

// RefreshPageInput pushes a page event to connected editors and caches.
type RefreshPageInput struct {
	Event pagebuilder.PageEvent `json:"event"`
}

// RefreshPageCommand triggers refresh hooks without an edit, for example
// after a theme change.
type RefreshPageCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshPageCommand creates a command instance.
func NewRefreshPageCommand(service refreshService, telemetry Telemetry) *RefreshPageCommand {
	return &RefreshPageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshPageInput] = (*RefreshPageCommand)(nil)

// Execute delegates to the service.
func (c *RefreshPageCommand) Execute(ctx context.Context, msg RefreshPageInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.StoreID == "" {
		return &InputError{Fields: []pagebuilder.FieldError{{Field: "store_id", Reason: "is required"}}}
	}
	if err := c.service.NotifyPageUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "pagebuilder.command.refresh", map[string]any{
		"store_id": msg.Event.StoreID,
		"page_id":  msg.Event.PageID,
	})
	return nil
}
