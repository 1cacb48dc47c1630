// Package config loads runtime settings for the page builder binaries.
//
// Priority (highest to lowest):
//  1. Environment variables with the PAGEBUILDER_ prefix (PAGEBUILDER_STORAGE_DSN)
//  2. The config file (pagebuilder.yaml in . or /etc/pagebuilder, or an explicit path)
//  3. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-pagebuilder/internal/logger"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "PAGEBUILDER"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Registry RegistryConfig
	Webhook  WebhookConfig
	Log      logger.Config
}

// WebhookConfig forwards page events to a notifications endpoint when URL is set.
type WebhookConfig struct {
	URL     string
	APIKey  string
	Channel string
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr     string
	BasePath string
}

// StorageConfig selects the page store. Driver is memory or postgres.
type StorageConfig struct {
	Driver  string
	DSN     string
	Migrate bool
}

// CacheConfig selects the storefront render cache. Driver is none, memory or redis.
type CacheConfig struct {
	Driver   string
	TTL      time.Duration
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RegistryConfig controls widget registration.
type RegistryConfig struct {
	Strict    bool
	Manifests []string
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pagebuilder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/pagebuilder")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Addr:     v.GetString("server.addr"),
			BasePath: v.GetString("server.base_path"),
		},
		Storage: StorageConfig{
			Driver:  strings.ToLower(v.GetString("storage.driver")),
			DSN:     v.GetString("storage.dsn"),
			Migrate: v.GetBool("storage.migrate"),
		},
		Cache: CacheConfig{
			Driver:   strings.ToLower(v.GetString("cache.driver")),
			TTL:      v.GetDuration("cache.ttl"),
			Addr:     v.GetString("cache.addr"),
			Password: v.GetString("cache.password"),
			DB:       v.GetInt("cache.db"),
			Prefix:   v.GetString("cache.prefix"),
		},
		Registry: RegistryConfig{
			Strict:    v.GetBool("registry.strict"),
			Manifests: v.GetStringSlice("registry.manifests"),
		},
		Webhook: WebhookConfig{
			URL:     v.GetString("webhook.url"),
			APIKey:  v.GetString("webhook.api_key"),
			Channel: v.GetString("webhook.channel"),
		},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_path", "/")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.migrate", true)
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.prefix", "pagebuilder:page:")
	v.SetDefault("registry.strict", false)
	v.SetDefault("webhook.channel", "pages")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case "none", "memory":
	case "redis":
		if c.Cache.Addr == "" {
			return errors.New("cache.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver %q is not supported", c.Cache.Driver)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	return nil
}
