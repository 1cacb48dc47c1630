package pagebuilder

import (
	"fmt"
	"time"
)

// NewPageDocument creates an empty draft document.
func NewPageDocument(id, storeID string, meta PageMeta, now time.Time) *PageDocument {
	if meta.Status == "" {
		meta.Status = StatusDraft
	}
	return &PageDocument{
		ID:        id,
		StoreID:   storeID,
		Meta:      meta,
		Sections:  []Section{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone deep-copies the document.
func (d *PageDocument) Clone() *PageDocument {
	if d == nil {
		return nil
	}
	out := *d
	if d.PublishedAt != nil {
		at := *d.PublishedAt
		out.PublishedAt = &at
	}
	out.Sections = make([]Section, len(d.Sections))
	for si, section := range d.Sections {
		cloned := section
		cloned.Rows = make([]Row, len(section.Rows))
		for ri, row := range section.Rows {
			clonedRow := Row{ID: row.ID, Widgets: make([]WidgetInstance, len(row.Widgets))}
			for wi, widget := range row.Widgets {
				clonedRow.Widgets[wi] = widget.Clone()
			}
			cloned.Rows[ri] = clonedRow
		}
		out.Sections[si] = cloned
	}
	return &out
}

// IsPublished reports whether the page is servable on the storefront.
func (d *PageDocument) IsPublished() bool {
	return d.Meta.Status == StatusPublished
}

// Widget finds a widget anywhere in the document.
func (d *PageDocument) Widget(widgetID string) (WidgetInstance, bool) {
	si, ri, wi, ok := d.locateWidget(widgetID)
	if !ok {
		return WidgetInstance{}, false
	}
	return d.Sections[si].Rows[ri].Widgets[wi], true
}

// Row finds a row anywhere in the document.
func (d *PageDocument) Row(rowID string) (Row, bool) {
	si, ri, ok := d.locateRow(rowID)
	if !ok {
		return Row{}, false
	}
	return d.Sections[si].Rows[ri], true
}

// WidgetCount counts every widget instance in the document.
func (d *PageDocument) WidgetCount() int {
	count := 0
	for _, section := range d.Sections {
		for _, row := range section.Rows {
			count += len(row.Widgets)
		}
	}
	return count
}

// WidgetTypes lists the distinct widget types referenced by the document.
func (d *PageDocument) WidgetTypes() []WidgetType {
	seen := map[WidgetType]struct{}{}
	var out []WidgetType
	for _, section := range d.Sections {
		for _, row := range section.Rows {
			for _, widget := range row.Widgets {
				if _, ok := seen[widget.Type]; ok {
					continue
				}
				seen[widget.Type] = struct{}{}
				out = append(out, widget.Type)
			}
		}
	}
	return out
}

// CheckStructure verifies that ids are present and unique across the tree.
func (d *PageDocument) CheckStructure() error {
	if d.ID == "" {
		return fmt.Errorf("pagebuilder: page id is required")
	}
	if d.StoreID == "" {
		return fmt.Errorf("pagebuilder: page %s has no store id", d.ID)
	}
	switch d.Meta.Status {
	case StatusDraft, StatusPublished:
	default:
		return fmt.Errorf("pagebuilder: page %s has unknown status %q", d.ID, d.Meta.Status)
	}
	seen := map[string]string{}
	claim := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("pagebuilder: %s without id in page %s", kind, d.ID)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("pagebuilder: id %s used by both a %s and a %s", id, prev, kind)
		}
		seen[id] = kind
		return nil
	}
	for _, section := range d.Sections {
		if err := claim("section", section.ID); err != nil {
			return err
		}
		for _, row := range section.Rows {
			if err := claim("row", row.ID); err != nil {
				return err
			}
			for _, widget := range row.Widgets {
				if err := claim("widget", widget.ID); err != nil {
					return err
				}
				if widget.Type == "" {
					return fmt.Errorf("pagebuilder: widget %s has no type", widget.ID)
				}
			}
		}
	}
	return nil
}

func (d *PageDocument) hasID(id string) bool {
	for _, section := range d.Sections {
		if section.ID == id {
			return true
		}
		for _, row := range section.Rows {
			if row.ID == id {
				return true
			}
			for _, widget := range row.Widgets {
				if widget.ID == id {
					return true
				}
			}
		}
	}
	return false
}

func (d *PageDocument) locateSection(sectionID string) (int, bool) {
	for si, section := range d.Sections {
		if section.ID == sectionID {
			return si, true
		}
	}
	return -1, false
}

func (d *PageDocument) locateRow(rowID string) (int, int, bool) {
	for si, section := range d.Sections {
		for ri, row := range section.Rows {
			if row.ID == rowID {
				return si, ri, true
			}
		}
	}
	return -1, -1, false
}

func (d *PageDocument) locateWidget(widgetID string) (int, int, int, bool) {
	for si, section := range d.Sections {
		for ri, row := range section.Rows {
			for wi, widget := range row.Widgets {
				if widget.ID == widgetID {
					return si, ri, wi, true
				}
			}
		}
	}
	return -1, -1, -1, false
}

func (d *PageDocument) rowWidgets(si, ri int) *[]WidgetInstance {
	return &d.Sections[si].Rows[ri].Widgets
}

// clampIndex turns an optional position into a valid insertion index for a
// list of length n; nil appends.
func clampIndex(at *int, n int) int {
	if at == nil || *at > n {
		return n
	}
	if *at < 0 {
		return 0
	}
	return *at
}

func insertAt[T any](list []T, at *int, item T) ([]T, int) {
	idx := clampIndex(at, len(list))
	list = append(list, item)
	copy(list[idx+1:], list[idx:])
	list[idx] = item
	return list, idx
}

func removeAt[T any](list []T, idx int) ([]T, T) {
	item := list[idx]
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...), item
}
