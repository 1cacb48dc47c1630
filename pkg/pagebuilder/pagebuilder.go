// Package pagebuilder is the public entry point for embedding the page builder.
package pagebuilder

import (
	core "github.com/goliatone/go-pagebuilder/components/pagebuilder"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/widgets"
)

// Service exposes the underlying components/pagebuilder.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Registry re-exports the widget registry.
type Registry = core.Registry

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewDefaultRegistry returns a registry holding the built-in widgets.
func NewDefaultRegistry(opts core.RegistryOptions) (*Registry, error) {
	reg := core.NewRegistry(opts)
	if err := widgets.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
