package goadmin

import (
	"context"
	"errors"
	"fmt"

	core "github.com/goliatone/go-pagebuilder/components/pagebuilder"
	pagebuilderpkg "github.com/goliatone/go-pagebuilder/pkg/pagebuilder"
)

// MenuBuilder ensures page builder entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures page builder link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the page builder service and feature flags into an admin shell.
type Config struct {
	EnablePageBuilder bool
	MenuCode          string
	MenuBuilder       MenuBuilder
	Service           *pagebuilderpkg.Service
	DefaultMenuItem   MenuItem
	// HomeTemplate seeds a home page for stores that have none. Empty disables seeding.
	HomeTemplate string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed menus and store home pages.
func New(cfg Config) (*Admin, error) {
	if cfg.EnablePageBuilder && cfg.Service == nil {
		return nil, errors.New("goadmin: page builder service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Pages"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.pages"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "layout"
	}
	return &Admin{cfg: cfg}, nil
}

// PageBuilder exposes the configured service when enabled.
func (a *Admin) PageBuilder() *pagebuilderpkg.Service {
	if !a.cfg.EnablePageBuilder {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds menu entries when page builder support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnablePageBuilder || a.cfg.MenuBuilder == nil {
		return nil
	}
	return a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, a.cfg.DefaultMenuItem)
}

// EnsureHomePage creates a draft "home" page for the store when it has no
// page with that slug yet. It returns the existing or created page.
func (a *Admin) EnsureHomePage(ctx context.Context, storeID string) (*core.PageDocument, error) {
	if !a.cfg.EnablePageBuilder || a.cfg.HomeTemplate == "" {
		return nil, nil
	}
	pages, err := a.cfg.Service.Pages(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if page.Slug == "home" {
			return a.cfg.Service.Page(ctx, core.PageRef{StoreID: storeID, PageID: page.ID})
		}
	}
	doc, err := a.cfg.Service.CreatePage(ctx, core.CreatePageRequest{
		StoreID:  storeID,
		Title:    "Home",
		Slug:     "home",
		Template: a.cfg.HomeTemplate,
	})
	if err != nil {
		return nil, fmt.Errorf("goadmin: seed home page for %s: %w", storeID, err)
	}
	return doc, nil
}
