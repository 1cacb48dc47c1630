// Package widgets holds the built-in storefront widgets. Importing it adds a
// registration hook; Registry.ApplyHooks or Register installs the types.
package widgets

import (
	"errors"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const (
	CategoryBasic    = "basic"
	CategoryMedia    = "media"
	CategoryCommerce = "commerce"
	CategoryLayout   = "layout"
)

func init() {
	pagebuilder.RegisterWidgetHook(Register)
}

// All returns the built-in widget configurations.
func All() []pagebuilder.WidgetConfig {
	return []pagebuilder.WidgetConfig{
		Button(),
		Text(),
		Image(),
		Gallery(),
		Cart(),
		FooterLayout(),
	}
}

// Register installs every built-in widget into reg.
func Register(reg *pagebuilder.Registry) error {
	if reg == nil {
		return errors.New("widgets: registry is required")
	}
	var errs error
	for _, cfg := range All() {
		errs = errors.Join(errs, reg.Register(cfg))
	}
	return errs
}

func classes(parts ...string) string {
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += part
	}
	return out
}
