package pagebuilder

import (
	"context"
	"testing"
)

func TestThemeTokensMerge(t *testing.T) {
	base := ThemeTokens{"color.primary": "#111", "font.body": "Inter"}
	merged := base.Merge(ThemeTokens{"color.primary": "#222", "font.body": ""})
	if merged["color.primary"] != "#222" || merged["font.body"] != "Inter" {
		t.Fatalf("unexpected merge %#v", merged)
	}
	if base["color.primary"] != "#111" {
		t.Fatalf("expected receiver untouched")
	}
	if ThemeTokens(nil).Merge(nil) != nil {
		t.Fatalf("expected empty merge to stay nil")
	}
}

func TestThemeTokensCSSVariables(t *testing.T) {
	tokens := ThemeTokens{"color.primary": "#111", "--spacing": "4px", " ": "ignored", "font.body": ""}
	if got := tokens.CSSVariablesInline(); got != "--color-primary: #111; --spacing: 4px;" {
		t.Fatalf("unexpected inline variables %q", got)
	}
	if got := tokens.Var("color.primary", "#000"); got != "var(--color-primary, #000)" {
		t.Fatalf("unexpected var %q", got)
	}
	if got := tokens.Var("color.primary", ""); got != "var(--color-primary)" {
		t.Fatalf("unexpected var %q", got)
	}
	if got := tokens.Token("font.body", "serif"); got != "serif" {
		t.Fatalf("expected blank token to fall back, got %q", got)
	}
}

func TestInMemoryThemeStore(t *testing.T) {
	store := NewInMemoryThemeStore()
	ctx := context.Background()
	if theme, _ := store.Theme(ctx, "store-1"); theme != nil {
		t.Fatalf("expected no theme for a new store, got %#v", theme)
	}
	tokens := ThemeTokens{"color.primary": "#111"}
	if err := store.SaveTheme(ctx, "store-1", tokens); err != nil {
		t.Fatalf("SaveTheme returned error: %v", err)
	}
	tokens["color.primary"] = "#999"
	theme, _ := store.Theme(ctx, "store-1")
	if theme["color.primary"] != "#111" {
		t.Fatalf("expected stored copy, got %#v", theme)
	}
	theme["color.primary"] = "#000"
	again, _ := store.Theme(ctx, "store-1")
	if again["color.primary"] != "#111" {
		t.Fatalf("expected callers to receive copies")
	}
	if err := store.SaveTheme(ctx, "", tokens); err == nil {
		t.Fatalf("expected missing store id to be rejected")
	}
}
