package widgets

import (
	"context"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const TypeImage pagebuilder.WidgetType = "image"

// Image shows a single picture. Version 2 renamed "url" to "src" and added "fit".
func Image() pagebuilder.WidgetConfig {
	return pagebuilder.WidgetConfig{
		Type:                 TypeImage,
		DisplayName:          "Image",
		DisplayNameLocalized: map[string]string{"es": "Imagen"},
		Description:          "A single responsive image",
		Category:             CategoryMedia,
		Icon:                 "photo",
		Version:              2,
		Schema: pagebuilder.WidgetSchema{Fields: []pagebuilder.FieldSpec{
			{Name: "src", Type: pagebuilder.FieldString, Label: "Image URL", Default: ""},
			{Name: "alt", Type: pagebuilder.FieldString, Label: "Alt text", Default: ""},
			{Name: "fit", Type: pagebuilder.FieldEnum, Label: "Fit", Enum: []string{"cover", "contain"}, Default: "cover"},
			{Name: "link", Type: pagebuilder.FieldString, Label: "Link"},
		}},
		View: imageView,
		Migrate: pagebuilder.StepMigrations(map[int]func(pagebuilder.Props) pagebuilder.Props{
			1: func(p pagebuilder.Props) pagebuilder.Props {
				if url, ok := p["url"]; ok {
					if _, has := p["src"]; !has {
						p["src"] = url
					}
					delete(p, "url")
				}
				if _, ok := p["fit"]; !ok {
					p["fit"] = "cover"
				}
				return p
			},
		}),
	}
}

func imageView(_ context.Context, in pagebuilder.ViewInput) (pagebuilder.Node, error) {
	src := in.String("src")
	if src == "" {
		return pagebuilder.Node{
			Component: string(TypeImage),
			Tag:       "div",
			Attrs:     map[string]string{"class": "pb-image pb-image--empty"},
			Text:      "No image selected",
		}, nil
	}
	img := pagebuilder.Node{
		Component: string(TypeImage),
		Tag:       "img",
		Attrs: map[string]string{
			"class":   "pb-image",
			"src":     src,
			"alt":     in.String("alt"),
			"style":   "object-fit: " + in.String("fit") + ";",
			"loading": "lazy",
		},
	}
	if link := in.String("link"); link != "" {
		return pagebuilder.Node{
			Component: string(TypeImage),
			Tag:       "a",
			Attrs:     map[string]string{"href": link},
			Children:  []pagebuilder.Node{img},
		}, nil
	}
	return img, nil
}
