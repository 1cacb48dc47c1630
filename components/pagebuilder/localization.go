package pagebuilder

import "strings"

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`es-mx`) fall back to their base language (`es`).
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		if value, ok := values[candidate]; ok && value != "" {
			return value
		}
	}
	return fallback
}

func (c *WidgetConfig) normalizeLocalizedFields() {
	c.DisplayNameLocalized = normalizeLocaleMap(c.DisplayNameLocalized)
	c.DescriptionLocalized = normalizeLocaleMap(c.DescriptionLocalized)
}

// NameForLocale returns the display name for the locale, falling back to DisplayName and then the type.
func (c WidgetConfig) NameForLocale(locale string) string {
	name := ResolveLocalizedValue(normalizeLocaleMap(c.DisplayNameLocalized), locale, c.DisplayName)
	if name == "" {
		return string(c.Type)
	}
	return name
}

// DescriptionForLocale returns the localized description if available.
func (c WidgetConfig) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(normalizeLocaleMap(c.DescriptionLocalized), locale, c.Description)
}

// PaletteItem is one entry of the editor's widget palette.
type PaletteItem struct {
	Type           WidgetType `json:"type"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Icon           string     `json:"icon"`
	Version        int        `json:"version"`
	DefaultColSpan ColSpan    `json:"default_col_span"`
}

// Palette lists registered widgets, optionally filtered by category, with
// names resolved for the locale.
func Palette(reg WidgetRegistry, locale, category string) []PaletteItem {
	if reg == nil {
		return nil
	}
	entries := reg.List(category)
	items := make([]PaletteItem, 0, len(entries))
	for _, cfg := range entries {
		span := cfg.DefaultColSpan
		if span.isZero() {
			span = FullWidth()
		}
		items = append(items, PaletteItem{
			Type:           cfg.Type,
			Name:           cfg.NameForLocale(locale),
			Description:    cfg.DescriptionForLocale(locale),
			Category:       cfg.Category,
			Icon:           cfg.Icon,
			Version:        cfg.CurrentVersion(),
			DefaultColSpan: span,
		})
	}
	return items
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	return strings.ReplaceAll(locale, "_", "-")
}
