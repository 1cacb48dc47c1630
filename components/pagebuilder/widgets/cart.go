package widgets

import (
	"context"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const TypeCart pagebuilder.WidgetType = "cart"

// Cart is the mount point for the storefront cart summary. Line items are
// filled in client side; the view only carries configuration.
func Cart() pagebuilder.WidgetConfig {
	return pagebuilder.WidgetConfig{
		Type:                 TypeCart,
		DisplayName:          "Cart",
		DisplayNameLocalized: map[string]string{"es": "Carrito"},
		Description:          "Cart summary with checkout button",
		Category:             CategoryCommerce,
		Icon:                 "shopping-cart",
		DefaultColSpan:       pagebuilder.ColSpan{Small: 12, Medium: 12, Large: 4},
		Schema: pagebuilder.WidgetSchema{Fields: []pagebuilder.FieldSpec{
			{Name: "title", Type: pagebuilder.FieldString, Label: "Title", Default: "Your cart"},
			{Name: "showTotals", Type: pagebuilder.FieldBoolean, Label: "Show totals", Default: true},
			{Name: "checkoutLabel", Type: pagebuilder.FieldString, Label: "Checkout button", Default: "Checkout", MinLength: pagebuilder.IntPtr(1)},
			{Name: "emptyMessage", Type: pagebuilder.FieldString, Label: "Empty cart message", Default: "Your cart is empty"},
		}},
		View: cartView,
	}
}

func cartView(_ context.Context, in pagebuilder.ViewInput) (pagebuilder.Node, error) {
	showTotals := "false"
	if in.Bool("showTotals") {
		showTotals = "true"
	}
	return pagebuilder.Node{
		Component: string(TypeCart),
		Tag:       "div",
		Attrs: map[string]string{
			"class":            "pb-cart",
			"data-show-totals": showTotals,
		},
		Children: []pagebuilder.Node{
			{Tag: "h3", Text: in.String("title")},
			{Tag: "p", Attrs: map[string]string{"class": "pb-cart__empty"}, Text: in.String("emptyMessage")},
			{
				Tag: "button",
				Attrs: map[string]string{
					"class": "pb-cart__checkout",
					"type":  "button",
					"style": "background: " + in.Theme.Token("color.primary", "#2563eb") + ";",
				},
				Text: in.String("checkoutLabel"),
			},
		},
		Data: map[string]any{"showTotals": in.Bool("showTotals")},
	}, nil
}
