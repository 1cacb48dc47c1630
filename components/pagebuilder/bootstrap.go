package pagebuilder

import (
	"errors"
	"fmt"
)

// ApplyTemplate appends the template sections to the document through the
// editor, so every widget starts from validated defaults.
func ApplyTemplate(editor *PageEditor, tpl PageTemplate) error {
	if editor == nil {
		return errors.New("pagebuilder: editor is required to apply a template")
	}
	for si, ts := range tpl.Sections {
		section, err := editor.AddSection(SectionStyle{Background: ts.Background, Padding: ts.Padding}, nil)
		if err != nil {
			return err
		}
		firstRow := section.Rows[0].ID
		for ri, widgets := range ts.Rows {
			rowID := firstRow
			if ri > 0 {
				row, err := editor.AddRow(section.ID, nil)
				if err != nil {
					return err
				}
				rowID = row.ID
			}
			for wi, tw := range widgets {
				instance, err := editor.AddWidget(rowID, tw.Type, nil)
				if err != nil {
					return fmt.Errorf("template %s section %d row %d widget %d: %w", tpl.Code, si, ri, wi, err)
				}
				if len(tw.Props) > 0 {
					if _, err := editor.UpdateWidgetProps(instance.ID, tw.Props); err != nil {
						return fmt.Errorf("template %s widget %s: %w", tpl.Code, tw.Type, err)
					}
				}
				if tw.ColSpan != nil {
					if err := editor.SetWidgetColSpan(instance.ID, tw.ColSpan); err != nil {
						return fmt.Errorf("template %s widget %s: %w", tpl.Code, tw.Type, err)
					}
				}
			}
		}
	}
	return nil
}
