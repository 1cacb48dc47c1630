package pagebuilder

import (
	"context"
	"errors"
)

// Controller turns service renders into HTML for storefront and preview routes.
type Controller struct {
	service *Service
	host    *HTMLHost
	cache   RenderCache
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Host  *HTMLHost
	Cache RenderCache
}

// NewController wires the service into a controller.
func NewController(service *Service, opts ControllerOptions) (*Controller, error) {
	if service == nil {
		return nil, errors.New("pagebuilder: controller requires a service")
	}
	if opts.Host == nil {
		renderer, err := NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
		if opts.Host, err = NewHTMLHost(renderer); err != nil {
			return nil, err
		}
	}
	if opts.Cache == nil {
		opts.Cache = noopRenderCache{}
	}
	return &Controller{service: service, host: opts.Host, cache: opts.Cache}, nil
}

// Storefront renders the published page with the slug. Output is cached per
// page revision and theme.
func (c *Controller) Storefront(ctx context.Context, storeID, slug, locale string) (string, error) {
	doc, err := c.service.StorefrontPage(ctx, storeID, slug)
	if err != nil {
		return "", err
	}
	theme, err := c.service.Theme(ctx, storeID, nil)
	if err != nil {
		return "", err
	}
	key := PageCacheKey(storeID, doc.Meta.Slug, doc.Revision, theme) + "|" + normalizeLocale(locale)
	return c.cache.GetOrRender(ctx, key, func() (string, error) {
		page, err := c.service.Renderer().RenderPublished(ctx, doc, theme)
		if err != nil {
			return "", err
		}
		return c.host.RenderHTML(page, PageHTMLOptions{Locale: locale})
	})
}

// Preview renders any page, draft included, for the editor canvas. Previews are never cached.
func (c *Controller) Preview(ctx context.Context, ref PageRef, overrides ThemeTokens, locale string) (string, error) {
	page, err := c.service.RenderPage(ctx, ref, overrides)
	if err != nil {
		return "", err
	}
	return c.host.RenderHTML(page, PageHTMLOptions{Locale: locale, Preview: true})
}
