package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type renderService interface {
	RenderPage(ctx context.Context, ref pagebuilder.PageRef, overrides pagebuilder.ThemeTokens) (pagebuilder.RenderedPage, error)
	RenderStorefront(ctx context.Context, storeID, slug string, overrides pagebuilder.ThemeTokens) (pagebuilder.RenderedPage, error)
}

// RenderPageInput asks for an editor preview with optional theme overrides.
type RenderPageInput struct {
	Ref   pagebuilder.PageRef     `json:"ref"`
	Theme pagebuilder.ThemeTokens `json:"theme,omitempty"`
}

// RenderPageQuery renders drafts and published pages for the editor canvas.
type RenderPageQuery struct {
	service renderService
}

// NewRenderPageQuery builds the query.
func NewRenderPageQuery(service renderService) *RenderPageQuery {
	return &RenderPageQuery{service: service}
}

var _ gocommand.Querier[RenderPageInput, pagebuilder.RenderedPage] = (*RenderPageQuery)(nil)

// Query renders the page.
func (q *RenderPageQuery) Query(ctx context.Context, input RenderPageInput) (pagebuilder.RenderedPage, error) {
	return q.service.RenderPage(ctx, input.Ref, input.Theme)
}

// StorefrontInput addresses a published page by slug.
type StorefrontInput struct {
	StoreID string                  `json:"store_id"`
	Slug    string                  `json:"slug"`
	Theme   pagebuilder.ThemeTokens `json:"theme,omitempty"`
}

// StorefrontQuery renders published pages for visitors.
type StorefrontQuery struct {
	service renderService
}

// NewStorefrontQuery builds the query.
func NewStorefrontQuery(service renderService) *StorefrontQuery {
	return &StorefrontQuery{service: service}
}

var _ gocommand.Querier[StorefrontInput, pagebuilder.RenderedPage] = (*StorefrontQuery)(nil)

// Query renders the published page.
func (q *StorefrontQuery) Query(ctx context.Context, input StorefrontInput) (pagebuilder.RenderedPage, error) {
	return q.service.RenderStorefront(ctx, input.StoreID, input.Slug, input.Theme)
}
