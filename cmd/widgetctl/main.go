package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/widgets"
	"github.com/goliatone/go-pagebuilder/internal/logger"
)

type cli struct {
	LogLevel string `default:"warn" help:"Log level (debug, info, warn, error)."`

	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a manifest widget entry and an optional Go widget stub."`
	Validate validateCmd `cmd:"" help:"Load manifests into a registry with the built-in widgets and report problems."`
	Palette  paletteCmd  `cmd:"" help:"Print the widget palette as JSON."`
	Render   renderCmd   `cmd:"" help:"Render a page document JSON file to HTML."`
}

type globals struct {
	out      io.Writer
	logLevel string
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Description("Widget and page tooling for go-pagebuilder."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background(), &globals{out: os.Stdout, logLevel: root.LogLevel})
	ctx.FatalIfErrorf(err)
}

// buildRegistry registers the built-in widgets followed by every manifest.
func buildRegistry(g *globals, strict bool, manifests []string) (*pagebuilder.Registry, error) {
	reg := pagebuilder.NewRegistry(pagebuilder.RegistryOptions{
		Logger: logger.New(logger.Config{Level: g.logLevel, Output: "stderr"}),
		Strict: strict,
	})
	if err := widgets.Register(reg); err != nil {
		return nil, fmt.Errorf("widgetctl: register built-in widgets: %w", err)
	}
	for _, path := range manifests {
		if _, err := reg.LoadManifestFile(path); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
