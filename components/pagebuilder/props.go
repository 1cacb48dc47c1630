package pagebuilder

import (
	"encoding/json"
	"fmt"

	"github.com/mohae/deepcopy"
)

// Props is the JSON-compatible property bag of a widget instance.
type Props map[string]any

// Clone deep-copies the props so independent widgets never share nested values.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	return deepcopy.Copy(p).(Props)
}

// String returns the string value for key or fallback.
func (p Props) String(key, fallback string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return fallback
}

// Bool returns the bool value for key or fallback.
func (p Props) Bool(key string, fallback bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return fallback
}

// Int returns the numeric value for key truncated to int, or fallback.
func (p Props) Int(key string, fallback int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return fallback
}

// List returns the array value for key.
func (p Props) List(key string) []any {
	if v, ok := p[key].([]any); ok {
		return v
	}
	return nil
}

// normalizeProps round-trips props through encoding/json so stored values
// have the same shape they will have after persistence (float64 numbers,
// []any arrays, map[string]any objects).
func normalizeProps(props Props) (Props, error) {
	if props == nil {
		return Props{}, nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("pagebuilder: marshal props: %w", err)
	}
	var out Props
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("pagebuilder: normalize props: %w", err)
	}
	if out == nil {
		out = Props{}
	}
	return out, nil
}
