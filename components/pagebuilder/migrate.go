package pagebuilder

import "fmt"

func instanceVersion(instance WidgetInstance) int {
	if instance.Version <= 0 {
		return 1
	}
	return instance.Version
}

// NeedsMigration reports whether the instance is behind its type's version.
func NeedsMigration(cfg WidgetConfig, instance WidgetInstance) bool {
	return instanceVersion(instance) < cfg.CurrentVersion()
}

// MigrateInstance brings an instance to the registered version. The input is
// never mutated. migrated is false when nothing ran: the instance was current
// or the type has no Migrate function, in which case it is returned as-is.
func MigrateInstance(cfg WidgetConfig, instance WidgetInstance) (out WidgetInstance, migrated bool, err error) {
	target := cfg.CurrentVersion()
	if !NeedsMigration(cfg, instance) || cfg.Migrate == nil {
		return instance.Clone(), false, nil
	}
	in := instance.Clone()
	in.Version = instanceVersion(instance)
	out, err = cfg.Migrate(in, target)
	if err != nil {
		return instance.Clone(), false, fmt.Errorf("pagebuilder: migrate %s %s from v%d to v%d: %w",
			instance.Type, instance.ID, in.Version, target, err)
	}
	if out.Version != target {
		return instance.Clone(), false, fmt.Errorf("pagebuilder: migration for %s returned version %d, want %d",
			instance.Type, out.Version, target)
	}
	out.ID = instance.ID
	out.Type = instance.Type
	if out.Props == nil {
		out.Props = Props{}
	}
	return out, true, nil
}
