package widgets

import (
	"context"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const TypeFooterLayout pagebuilder.WidgetType = "footer-layout"

// FooterLayout renders link columns and a copyright line.
func FooterLayout() pagebuilder.WidgetConfig {
	return pagebuilder.WidgetConfig{
		Type:                 TypeFooterLayout,
		DisplayName:          "Footer",
		DisplayNameLocalized: map[string]string{"es": "Pie de página"},
		Description:          "Footer links and copyright",
		Category:             CategoryLayout,
		Icon:                 "layout-bottom",
		Schema: pagebuilder.WidgetSchema{Fields: []pagebuilder.FieldSpec{
			{Name: "copyright", Type: pagebuilder.FieldString, Label: "Copyright", Default: "All rights reserved"},
			{Name: "links", Type: pagebuilder.FieldArray, Items: pagebuilder.FieldObject, Label: "Links", Default: []any{
				map[string]any{"label": "About", "href": "/about"},
				map[string]any{"label": "Contact", "href": "/contact"},
			}},
			{Name: "showSocial", Type: pagebuilder.FieldBoolean, Label: "Show social icons", Default: false},
		}},
		View: footerView,
	}
}

func footerView(_ context.Context, in pagebuilder.ViewInput) (pagebuilder.Node, error) {
	nav := pagebuilder.Node{Tag: "nav", Attrs: map[string]string{"class": "pb-footer__links"}}
	for _, item := range in.Props.List("links") {
		link, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label, _ := link["label"].(string)
		href, _ := link["href"].(string)
		if label == "" {
			continue
		}
		if href == "" {
			href = "#"
		}
		nav.Children = append(nav.Children, pagebuilder.Node{
			Tag:   "a",
			Attrs: map[string]string{"href": href},
			Text:  label,
		})
	}
	return pagebuilder.Node{
		Component: string(TypeFooterLayout),
		Tag:       "footer",
		Attrs: map[string]string{
			"class": "pb-footer",
			"style": "color: " + in.Theme.Token("color.footer-text", "#e2e8f0") + ";",
		},
		Children: []pagebuilder.Node{
			nav,
			{Tag: "small", Text: in.String("copyright")},
		},
	}, nil
}
