package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

type validateCmd struct {
	Manifests []string `arg:"" type:"existingfile" help:"Manifest files to load."`
	Strict    bool     `help:"Fail when a manifest redefines an existing widget type."`
}

func (cmd *validateCmd) Run(_ context.Context, g *globals) error {
	reg, err := buildRegistry(g, cmd.Strict, cmd.Manifests)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.out, "✓ %d widget types registered (%d overwritten)\n", reg.Len(), reg.Overwrites())
	return nil
}

type paletteCmd struct {
	Manifest []string `type:"existingfile" help:"Extra manifests to include."`
	Locale   string   `help:"Locale used for names and descriptions."`
	Category string   `help:"Only list widgets in this category."`
}

func (cmd *paletteCmd) Run(_ context.Context, g *globals) error {
	reg, err := buildRegistry(g, false, cmd.Manifest)
	if err != nil {
		return err
	}
	return writeJSON(g.out, pagebuilder.Palette(reg, cmd.Locale, cmd.Category))
}

type renderCmd struct {
	Page     string   `arg:"" type:"existingfile" help:"Page document JSON file."`
	Manifest []string `type:"existingfile" help:"Extra manifests to include."`
	Theme    string   `type:"existingfile" help:"JSON file with theme tokens."`
	Locale   string   `help:"Locale written to the page shell."`
	Tree     bool     `help:"Print the render tree as JSON instead of HTML."`
}

func (cmd *renderCmd) Run(ctx context.Context, g *globals) error {
	reg, err := buildRegistry(g, false, cmd.Manifest)
	if err != nil {
		return err
	}
	var doc pagebuilder.PageDocument
	if err := readJSON(cmd.Page, &doc); err != nil {
		return err
	}
	var theme pagebuilder.ThemeTokens
	if cmd.Theme != "" {
		if err := readJSON(cmd.Theme, &theme); err != nil {
			return err
		}
	}
	renderer, err := pagebuilder.NewPageRenderer(pagebuilder.RendererOptions{Registry: reg})
	if err != nil {
		return err
	}
	page, err := renderer.Render(ctx, &doc, theme)
	if err != nil {
		return err
	}
	if page.Placeholders > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d widgets rendered as placeholders\n", page.Placeholders)
	}
	if cmd.Tree {
		return writeJSON(g.out, page)
	}
	templates, err := pagebuilder.NewTemplateRenderer()
	if err != nil {
		return err
	}
	host, err := pagebuilder.NewHTMLHost(templates)
	if err != nil {
		return err
	}
	_, err = host.RenderHTML(page, pagebuilder.PageHTMLOptions{Locale: cmd.Locale}, g.out)
	return err
}

func readJSON(path string, dst any) error {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("widgetctl: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("widgetctl: parse %s: %w", path, err)
	}
	return nil
}
