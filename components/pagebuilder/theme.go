package pagebuilder

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ThemeTokens maps semantic tokens ("color.primary", "font.body") to values.
// Views read tokens opportunistically and fall back to their own defaults.
type ThemeTokens map[string]string

// Token returns the token value or fallback.
func (t ThemeTokens) Token(key, fallback string) string {
	if v := strings.TrimSpace(t[key]); v != "" {
		return v
	}
	return fallback
}

// Merge returns a new token set where overrides win over the receiver.
func (t ThemeTokens) Merge(overrides ThemeTokens) ThemeTokens {
	if len(t) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(ThemeTokens, len(t)+len(overrides))
	for key, value := range t {
		out[key] = value
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// CSSVariables normalizes token keys into CSS variable names.
func (t ThemeTokens) CSSVariables() map[string]string {
	if len(t) == 0 {
		return nil
	}
	vars := make(map[string]string, len(t))
	for key, value := range t {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the CSS variable map as a style string, sorted by name.
func (t ThemeTokens) CSSVariablesInline() string {
	vars := t.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		value := vars[key]
		if value == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

// Var returns a CSS var() reference for a token with a fallback value.
func (t ThemeTokens) Var(key, fallback string) string {
	name := normalizeCSSVariable(key)
	if name == "" {
		return fallback
	}
	if fallback == "" {
		return fmt.Sprintf("var(%s)", name)
	}
	return fmt.Sprintf("var(%s, %s)", name, fallback)
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, ".", "-")
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

// InMemoryThemeStore keeps per-store theme tokens.
type InMemoryThemeStore struct {
	mu     sync.RWMutex
	themes map[string]ThemeTokens
}

var _ ThemeProvider = (*InMemoryThemeStore)(nil)

// NewInMemoryThemeStore creates an empty theme store.
func NewInMemoryThemeStore() *InMemoryThemeStore {
	return &InMemoryThemeStore{themes: map[string]ThemeTokens{}}
}

// Theme returns a copy of the store theme; stores without a theme get nil.
func (s *InMemoryThemeStore) Theme(_ context.Context, storeID string) (ThemeTokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ThemeTokens(nil).Merge(s.themes[storeID]), nil
}

// SaveTheme replaces the store theme.
func (s *InMemoryThemeStore) SaveTheme(_ context.Context, storeID string, tokens ThemeTokens) error {
	if storeID == "" {
		return fmt.Errorf("pagebuilder: theme store requires store id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[storeID] = ThemeTokens(nil).Merge(tokens)
	return nil
}

type noThemeProvider struct{}

func (noThemeProvider) Theme(context.Context, string) (ThemeTokens, error) { return nil, nil }
