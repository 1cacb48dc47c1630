package pagebuilder

import (
	"context"
	"errors"
)

// MultiHook forwards events to every hook and joins their errors.
type MultiHook []RefreshHook

// PageUpdated calls each hook in order.
func (m MultiHook) PageUpdated(ctx context.Context, event PageEvent) error {
	var errs error
	for _, hook := range m {
		if hook == nil {
			continue
		}
		errs = errors.Join(errs, hook.PageUpdated(ctx, event))
	}
	return errs
}

// CacheInvalidationHook drops cached storefront renders of a store whenever
// one of its pages changes.
type CacheInvalidationHook struct {
	Cache RenderCache
}

// PageUpdated invalidates the store prefix.
func (h *CacheInvalidationHook) PageUpdated(ctx context.Context, event PageEvent) error {
	if h == nil || h.Cache == nil || event.StoreID == "" {
		return nil
	}
	return h.Cache.Invalidate(ctx, StoreCachePrefix(event.StoreID))
}

// NotificationsClient defines the minimal interface needed from an external
// notifications service.
type NotificationsClient interface {
	PublishPageEvent(ctx context.Context, channel string, event PageEvent) error
}

// NotificationsHook forwards page events to an external notifications client.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
}

// PageUpdated publishes events to the configured notifications client.
func (h *NotificationsHook) PageUpdated(ctx context.Context, event PageEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	return h.Client.PublishPageEvent(ctx, h.Channel, event)
}
