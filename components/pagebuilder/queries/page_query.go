package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type pageService interface {
	Page(ctx context.Context, ref pagebuilder.PageRef) (*pagebuilder.PageDocument, error)
	Pages(ctx context.Context, storeID string) ([]pagebuilder.PageSummary, error)
}

// PageQuery loads one page document.
type PageQuery struct {
	service pageService
}

// NewPageQuery builds the query.
func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[pagebuilder.PageRef, *pagebuilder.PageDocument] = (*PageQuery)(nil)

// Query returns the page.
func (q *PageQuery) Query(ctx context.Context, ref pagebuilder.PageRef) (*pagebuilder.PageDocument, error) {
	return q.service.Page(ctx, ref)
}

// PageListInput selects the store whose pages are listed.
type PageListInput struct {
	StoreID string `json:"store_id"`
}

// PageListQuery lists page summaries for a store.
type PageListQuery struct {
	service pageService
}

// NewPageListQuery builds the query.
func NewPageListQuery(service pageService) *PageListQuery {
	return &PageListQuery{service: service}
}

var _ gocommand.Querier[PageListInput, []pagebuilder.PageSummary] = (*PageListQuery)(nil)

// Query lists the store pages.
func (q *PageListQuery) Query(ctx context.Context, input PageListInput) ([]pagebuilder.PageSummary, error) {
	return q.service.Pages(ctx, input.StoreID)
}
