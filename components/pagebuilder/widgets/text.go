package widgets

import (
	"context"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const TypeText pagebuilder.WidgetType = "text"

// Text renders a heading or paragraph.
func Text() pagebuilder.WidgetConfig {
	return pagebuilder.WidgetConfig{
		Type:                 TypeText,
		DisplayName:          "Text",
		DisplayNameLocalized: map[string]string{"es": "Texto"},
		Description:          "Headings and paragraphs",
		Category:             CategoryBasic,
		Icon:                 "text",
		Schema: pagebuilder.WidgetSchema{Fields: []pagebuilder.FieldSpec{
			{Name: "content", Type: pagebuilder.FieldString, Label: "Content", Default: "Add your text here", MaxLength: pagebuilder.IntPtr(5000)},
			{Name: "tag", Type: pagebuilder.FieldEnum, Label: "Element", Enum: []string{"p", "h1", "h2", "h3", "h4"}, Default: "p"},
			{Name: "align", Type: pagebuilder.FieldEnum, Label: "Alignment", Enum: []string{"left", "center", "right"}, Default: "left"},
		}},
		View: textView,
	}
}

func textView(_ context.Context, in pagebuilder.ViewInput) (pagebuilder.Node, error) {
	font := in.Theme.Token("font.body", "")
	tag := in.String("tag")
	if tag != "p" {
		font = in.Theme.Token("font.heading", font)
	}
	style := "text-align: " + in.String("align") + ";"
	if font != "" {
		style += " font-family: " + font + ";"
	}
	return pagebuilder.Node{
		Component: string(TypeText),
		Tag:       tag,
		Attrs: map[string]string{
			"class": "pb-text",
			"style": style,
		},
		Text: in.String("content"),
	}, nil
}
