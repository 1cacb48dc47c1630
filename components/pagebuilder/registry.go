package pagebuilder

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// WidgetHook lets widget packages register their types during init().
type WidgetHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []WidgetHook
)

// RegisterWidgetHook records a hook applied by Registry.ApplyHooks. Hooks must
// only register their own widget types.
func RegisterWidgetHook(h WidgetHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Validator PropsValidator
	Logger    *zap.Logger
	// Strict rejects a second registration of the same type instead of
	// letting the last one win.
	Strict bool
}

// Registry maps widget types to their configuration. It is built once per
// process and injected into editors and renderers.
type Registry struct {
	mu         sync.RWMutex
	entries    map[WidgetType]WidgetConfig
	validator  PropsValidator
	logger     *zap.Logger
	strict     bool
	overwrites int
}

var _ WidgetRegistry = (*Registry)(nil)

// NewRegistry builds an empty registry. Call ApplyHooks to pull in widget
// packages that self-register.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Registry{
		entries:   map[WidgetType]WidgetConfig{},
		validator: opts.Validator,
		logger:    opts.Logger.Named("registry"),
		strict:    opts.Strict,
	}
}

// ApplyHooks executes registered widget hooks against the registry.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	hooks := append([]WidgetHook(nil), globalHooks...)
	globalHookMu.Unlock()
	var hookErr error
	for _, hook := range hooks {
		if err := hook(r); err != nil {
			hookErr = errors.Join(hookErr, err)
		}
	}
	return hookErr
}

// Register validates and stores a widget configuration. The default props
// must satisfy the schema. Re-registering a type replaces the previous entry
// unless the registry is strict.
func (r *Registry) Register(cfg WidgetConfig) error {
	if cfg.Type == "" {
		return fmt.Errorf("pagebuilder: widget type is required")
	}
	if cfg.View == nil {
		return fmt.Errorf("pagebuilder: widget %s has no view", cfg.Type)
	}
	if err := cfg.Schema.Check(); err != nil {
		return fmt.Errorf("pagebuilder: widget %s: %w", cfg.Type, err)
	}
	if !cfg.DefaultColSpan.isZero() && !cfg.DefaultColSpan.valid() {
		return fmt.Errorf("pagebuilder: widget %s default col span must be within 1..%d", cfg.Type, MaxColumns)
	}
	defaults, err := normalizeProps(cfg.InitialProps())
	if err != nil {
		return fmt.Errorf("pagebuilder: widget %s: %w", cfg.Type, err)
	}
	if err := r.validator.Validate(cfg, defaults); err != nil {
		return fmt.Errorf("pagebuilder: default props for %s: %w", cfg.Type, err)
	}
	cfg.DefaultProps = defaults
	cfg.Version = cfg.CurrentVersion()
	if cfg.Editor == nil {
		cfg.Editor = DefaultEditor
	}
	cfg.normalizeLocalizedFields()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[cfg.Type]; exists {
		if r.strict {
			return fmt.Errorf("%w: %s", ErrDuplicateWidgetType, cfg.Type)
		}
		r.overwrites++
		r.logger.Warn("widget type re-registered, last registration wins",
			zap.String("type", string(cfg.Type)),
			zap.Int("version", cfg.Version),
		)
	}
	r.entries[cfg.Type] = cfg
	return nil
}

// MustRegister panics when Register fails. Intended for init-time wiring.
func (r *Registry) MustRegister(cfg WidgetConfig) {
	if err := r.Register(cfg); err != nil {
		panic(err)
	}
}

// Unregister removes a widget type. Pages that still reference it render a
// placeholder.
func (r *Registry) Unregister(widgetType WidgetType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[widgetType]; !ok {
		return false
	}
	delete(r.entries, widgetType)
	return true
}

// Get returns the configuration for a type; ok is false for unknown types.
func (r *Registry) Get(widgetType WidgetType) (WidgetConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.entries[widgetType]
	return cfg, ok
}

// List returns entries sorted by category and name. An empty category lists
// everything.
func (r *Registry) List(category string) []WidgetConfig {
	r.mu.RLock()
	out := make([]WidgetConfig, 0, len(r.entries))
	for _, cfg := range r.entries {
		if category != "" && cfg.Category != category {
			continue
		}
		out = append(out, cfg)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Categories returns the distinct categories in sorted order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]struct{}{}
	var out []string
	for _, cfg := range r.entries {
		if _, ok := seen[cfg.Category]; ok {
			continue
		}
		seen[cfg.Category] = struct{}{}
		out = append(out, cfg.Category)
	}
	sort.Strings(out)
	return out
}

// Len reports how many types are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Overwrites reports how many registrations replaced an existing type.
func (r *Registry) Overwrites() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overwrites
}

// Validator exposes the props validator the registry checks defaults with.
func (r *Registry) Validator() PropsValidator {
	return r.validator
}
