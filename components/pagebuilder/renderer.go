package pagebuilder

import (
	"errors"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// PageTemplateName is the embedded template used for full storefront pages.
const PageTemplateName = "page"

// Renderer describes the template renderer contract needed by the HTML host.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// voidElements never carry children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "br": true, "col": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "source": true, "wbr": true,
}

// blockedElements are serialized as their text content only.
var blockedElements = map[string]bool{"script": true, "style": true, "iframe": true, "object": true}

// HTMLHost turns rendered pages into HTML: widget nodes are serialized here
// and the page shell comes from a template.
type HTMLHost struct {
	renderer Renderer
	template string
}

// NewHTMLHost wraps a template renderer.
func NewHTMLHost(renderer Renderer) (*HTMLHost, error) {
	if renderer == nil {
		return nil, errors.New("pagebuilder: html host requires a template renderer")
	}
	return &HTMLHost{renderer: renderer, template: PageTemplateName}, nil
}

// PageHTMLOptions tweaks the page shell.
type PageHTMLOptions struct {
	Locale  string
	Preview bool
}

// RenderHTML renders the page shell around the serialized widgets.
func (h *HTMLHost) RenderHTML(page RenderedPage, opts PageHTMLOptions, out ...io.Writer) (string, error) {
	data := PageTemplateData(page, opts)
	result, err := h.renderer.Render(h.template, data, out...)
	if err != nil {
		return "", fmt.Errorf("pagebuilder: render page %s: %w", page.PageID, err)
	}
	return result, nil
}

// PageTemplateData builds the template context for a rendered page.
func PageTemplateData(page RenderedPage, opts PageHTMLOptions) map[string]any {
	title := page.Meta.SEOTitle
	if title == "" {
		title = page.Meta.Title
	}
	sections := make([]map[string]any, 0, len(page.Sections))
	for _, section := range page.Sections {
		rows := make([]map[string]any, 0, len(section.Rows))
		for _, row := range section.Rows {
			widgets := make([]map[string]any, 0, len(row.Widgets))
			for _, widget := range row.Widgets {
				widgets = append(widgets, map[string]any{
					"id":      widget.ID,
					"type":    string(widget.Type),
					"classes": WidgetClasses(widget),
					"html":    NodeHTML(widget.Node),
				})
			}
			rows = append(rows, map[string]any{"id": row.ID, "widgets": widgets})
		}
		sections = append(sections, map[string]any{
			"id":    section.ID,
			"style": sectionStyle(section),
			"rows":  rows,
		})
	}
	columns := make([]int, MaxColumns)
	for i := range columns {
		columns[i] = i + 1
	}
	return map[string]any{
		"page_id":     page.PageID,
		"revision":    page.Revision,
		"title":       title,
		"description": page.Meta.SEODescription,
		"locale":      opts.Locale,
		"preview":     opts.Preview,
		"theme_style": page.Theme.CSSVariablesInline(),
		"sections":    sections,
		"columns":     columns,
		"breakpoints": []map[string]string{
			{"name": "sm", "media": "(max-width: 639px)"},
			{"name": "md", "media": "(min-width: 640px) and (max-width: 1023px)"},
			{"name": "lg", "media": "(min-width: 1024px)"},
		},
	}
}

// WidgetClasses returns the grid and visibility classes for a widget wrapper.
func WidgetClasses(widget RenderedWidget) string {
	classes := []string{
		"pb-widget",
		fmt.Sprintf("pb-col-sm-%d", widget.ColSpan.Small),
		fmt.Sprintf("pb-col-md-%d", widget.ColSpan.Medium),
		fmt.Sprintf("pb-col-lg-%d", widget.ColSpan.Large),
	}
	if !widget.Visibility.Small {
		classes = append(classes, "pb-hidden-sm")
	}
	if !widget.Visibility.Medium {
		classes = append(classes, "pb-hidden-md")
	}
	if !widget.Visibility.Large {
		classes = append(classes, "pb-hidden-lg")
	}
	if widget.Placeholder {
		classes = append(classes, "pb-placeholder")
	}
	return strings.Join(classes, " ")
}

func sectionStyle(section RenderedSection) string {
	var parts []string
	if section.Background != "" {
		parts = append(parts, "background: "+section.Background+";")
	}
	if section.Padding != "" {
		parts = append(parts, "padding: "+section.Padding+";")
	}
	return strings.Join(parts, " ")
}

// NodeHTML serializes a render tree. Text and attribute values are escaped;
// nodes without a tag render their text and children only.
func NodeHTML(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

func writeNode(b *strings.Builder, node Node) {
	tag := strings.ToLower(strings.TrimSpace(node.Tag))
	if tag == "" || blockedElements[tag] || !validAttrName(tag) {
		b.WriteString(html.EscapeString(node.Text))
		for _, child := range node.Children {
			writeNode(b, child)
		}
		return
	}
	b.WriteString("<")
	b.WriteString(tag)
	keys := make([]string, 0, len(node.Attrs))
	for key := range node.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !validAttrName(key) || unsafeURL(key, node.Attrs[key]) {
			continue
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(node.Attrs[key]))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if voidElements[tag] {
		return
	}
	b.WriteString(html.EscapeString(node.Text))
	for _, child := range node.Children {
		writeNode(b, child)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
}

func unsafeURL(attr, value string) bool {
	switch strings.ToLower(attr) {
	case "href", "src", "action", "formaction":
	default:
		return false
	}
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(value, "javascript:") || strings.HasPrefix(value, "vbscript:")
}

func validAttrName(name string) bool {
	if name == "" || strings.HasPrefix(strings.ToLower(name), "on") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}
