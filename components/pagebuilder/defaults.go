package pagebuilder

import "sort"

const (
	TemplateBlank   = "blank"
	TemplateLanding = "landing"
)

// PageTemplate is a starter layout a store owner can pick when creating a page.
type PageTemplate struct {
	Code        string            `json:"code" yaml:"code"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Sections    []TemplateSection `json:"sections" yaml:"sections"`
}

// TemplateSection declares one section of a template; each entry of Rows is a row.
type TemplateSection struct {
	Background string             `json:"background,omitempty" yaml:"background"`
	Padding    string             `json:"padding,omitempty" yaml:"padding"`
	Rows       [][]TemplateWidget `json:"rows" yaml:"rows"`
}

// TemplateWidget places a widget with props layered over its defaults.
type TemplateWidget struct {
	Type    WidgetType `json:"type" yaml:"type"`
	Props   Props      `json:"props,omitempty" yaml:"props"`
	ColSpan *ColSpan   `json:"col_span,omitempty" yaml:"col_span"`
}

var defaultPageTemplates = []PageTemplate{
	{
		Code:        TemplateBlank,
		Name:        "Blank page",
		Description: "A single empty section",
		Sections:    []TemplateSection{{Rows: [][]TemplateWidget{{}}}},
	},
	{
		Code:        TemplateLanding,
		Name:        "Landing page",
		Description: "Hero, feature gallery and footer",
		Sections: []TemplateSection{
			{
				Background: "#f8fafc",
				Padding:    "64px 16px",
				Rows: [][]TemplateWidget{
					{{Type: "text", Props: Props{"content": "Welcome to our store", "tag": "h1", "align": "center"}}},
					{{Type: "button", Props: Props{"label": "Shop now", "href": "/products"}}},
				},
			},
			{
				Padding: "32px 16px",
				Rows: [][]TemplateWidget{
					{
						{Type: "image", ColSpan: &ColSpan{Small: 12, Medium: 6, Large: 6}},
						{Type: "text", ColSpan: &ColSpan{Small: 12, Medium: 6, Large: 6}, Props: Props{"content": "Tell your story here."}},
					},
					{{Type: "gallery"}},
				},
			},
			{
				Background: "#0f172a",
				Rows:       [][]TemplateWidget{{{Type: "footer-layout"}}},
			},
		},
	},
}

// DefaultPageTemplates returns the built-in starter templates.
func DefaultPageTemplates() []PageTemplate {
	out := make([]PageTemplate, len(defaultPageTemplates))
	copy(out, defaultPageTemplates)
	return out
}

// TemplateCatalog resolves page templates by code.
type TemplateCatalog struct {
	templates map[string]PageTemplate
}

// NewTemplateCatalog indexes templates; later entries overwrite earlier ones.
func NewTemplateCatalog(templates ...PageTemplate) *TemplateCatalog {
	c := &TemplateCatalog{templates: make(map[string]PageTemplate, len(templates))}
	for _, tpl := range templates {
		c.templates[tpl.Code] = tpl
	}
	return c
}

// Get returns the template with the code.
func (c *TemplateCatalog) Get(code string) (PageTemplate, bool) {
	tpl, ok := c.templates[code]
	return tpl, ok
}

// List returns templates sorted by code.
func (c *TemplateCatalog) List() []PageTemplate {
	out := make([]PageTemplate, 0, len(c.templates))
	for _, tpl := range c.templates {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
