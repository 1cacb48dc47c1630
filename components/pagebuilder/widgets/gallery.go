package widgets

import (
	"context"
	"fmt"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const TypeGallery pagebuilder.WidgetType = "gallery"

// Gallery lays out images in a grid.
func Gallery() pagebuilder.WidgetConfig {
	return pagebuilder.WidgetConfig{
		Type:                 TypeGallery,
		DisplayName:          "Gallery",
		DisplayNameLocalized: map[string]string{"es": "Galería"},
		Description:          "A grid of images",
		Category:             CategoryMedia,
		Icon:                 "squares",
		Schema: pagebuilder.WidgetSchema{Fields: []pagebuilder.FieldSpec{
			{Name: "images", Type: pagebuilder.FieldArray, Items: pagebuilder.FieldString, Label: "Images", Default: []any{}, MaxLength: pagebuilder.IntPtr(48)},
			{Name: "columns", Type: pagebuilder.FieldInteger, Label: "Columns", Default: 3, Min: pagebuilder.Float(1), Max: pagebuilder.Float(6)},
			{Name: "gap", Type: pagebuilder.FieldInteger, Label: "Gap (px)", Default: 8, Min: pagebuilder.Float(0), Max: pagebuilder.Float(64)},
		}},
		View: galleryView,
	}
}

func galleryView(_ context.Context, in pagebuilder.ViewInput) (pagebuilder.Node, error) {
	columns := in.Int("columns")
	node := pagebuilder.Node{
		Component: string(TypeGallery),
		Tag:       "div",
		Attrs: map[string]string{
			"class": "pb-gallery",
			"style": fmt.Sprintf("display: grid; grid-template-columns: repeat(%d, 1fr); gap: %dpx;", columns, in.Int("gap")),
		},
	}
	for idx, item := range in.Props.List("images") {
		src, ok := item.(string)
		if !ok || src == "" {
			continue
		}
		node.Children = append(node.Children, pagebuilder.Node{
			Tag: "img",
			Attrs: map[string]string{
				"src":     src,
				"alt":     fmt.Sprintf("Gallery image %d", idx+1),
				"loading": "lazy",
			},
		})
	}
	if len(node.Children) == 0 {
		node.Text = "Add images to this gallery"
	}
	return node, nil
}
