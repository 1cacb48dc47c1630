package widgets

import (
	"context"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const TypeButton pagebuilder.WidgetType = "button"

// Button is a call-to-action link. Version 2 renamed "text" to "label" and
// introduced "variant".
func Button() pagebuilder.WidgetConfig {
	return pagebuilder.WidgetConfig{
		Type:                 TypeButton,
		DisplayName:          "Button",
		DisplayNameLocalized: map[string]string{"es": "Botón"},
		Description:          "A call-to-action button linking anywhere",
		Category:             CategoryBasic,
		Icon:                 "cursor-click",
		Version:              2,
		DefaultColSpan:       pagebuilder.ColSpan{Small: 12, Medium: 6, Large: 4},
		Schema: pagebuilder.WidgetSchema{Fields: []pagebuilder.FieldSpec{
			{Name: "label", Type: pagebuilder.FieldString, Label: "Label", Required: true, Default: "Click me", MinLength: pagebuilder.IntPtr(1), MaxLength: pagebuilder.IntPtr(80)},
			{Name: "href", Type: pagebuilder.FieldString, Label: "Link", Default: "#"},
			{Name: "size", Type: pagebuilder.FieldEnum, Label: "Size", Enum: []string{"sm", "md", "lg"}, Default: "md"},
			{Name: "variant", Type: pagebuilder.FieldEnum, Label: "Style", Enum: []string{"primary", "secondary", "link"}, Default: "primary"},
			{Name: "newTab", Type: pagebuilder.FieldBoolean, Label: "Open in new tab", Default: false},
		}},
		View: buttonView,
		Migrate: pagebuilder.StepMigrations(map[int]func(pagebuilder.Props) pagebuilder.Props{
			1: func(p pagebuilder.Props) pagebuilder.Props {
				if text, ok := p["text"]; ok {
					if _, has := p["label"]; !has {
						p["label"] = text
					}
					delete(p, "text")
				}
				if _, ok := p["variant"]; !ok {
					p["variant"] = "primary"
				}
				return p
			},
		}),
	}
}

func buttonView(_ context.Context, in pagebuilder.ViewInput) (pagebuilder.Node, error) {
	variant := in.String("variant")
	attrs := map[string]string{
		"class": classes("pb-button", "pb-button--"+variant, "pb-button--"+in.String("size")),
		"href":  in.String("href"),
	}
	if in.Bool("newTab") {
		attrs["target"] = "_blank"
		attrs["rel"] = "noopener"
	}
	if variant == "primary" {
		attrs["style"] = "background: " + in.Theme.Token("color.primary", "#2563eb") + "; color: " + in.Theme.Token("color.on-primary", "#ffffff") + ";"
	}
	return pagebuilder.Node{
		Component: string(TypeButton),
		Tag:       "a",
		Attrs:     attrs,
		Text:      in.String("label"),
	}, nil
}
