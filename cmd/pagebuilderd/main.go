package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/gorouter"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/httpapi"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/widgets"
	"github.com/goliatone/go-pagebuilder/internal/config"
	"github.com/goliatone/go-pagebuilder/internal/logger"
	"github.com/goliatone/go-pagebuilder/pkg/storage/postgres"
	"github.com/goliatone/go-pagebuilder/pkg/storage/rediscache"
	"github.com/goliatone/go-pagebuilder/pkg/webhook"
)

type cli struct {
	Config string `type:"path" help:"Path to a pagebuilder.yaml config file."`
	Seed   string `help:"Create and publish a landing page for this store on startup."`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Description("Storefront page builder server."),
		kong.UsageOnError(),
	)
	if err := run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args cli) error {
	cfg, err := config.Load(args.Config)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)
	defer log.Sync() //nolint:errcheck

	registry := pagebuilder.NewRegistry(pagebuilder.RegistryOptions{
		Logger: log,
		Strict: cfg.Registry.Strict,
	})
	if err := widgets.Register(registry); err != nil {
		return fmt.Errorf("register widgets: %w", err)
	}
	for _, path := range cfg.Registry.Manifests {
		if _, err := registry.LoadManifestFile(path); err != nil {
			return err
		}
	}

	store, closeStore, err := openStore(cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, err := openCache(ctx, cfg.Cache, log)
	if err != nil {
		return err
	}

	broadcast := pagebuilder.NewBroadcastHook()
	hooks := pagebuilder.MultiHook{
		&pagebuilder.CacheInvalidationHook{Cache: cache},
		broadcast,
	}
	if cfg.Webhook.URL != "" {
		client, err := webhook.NewHTTPClient(webhook.HTTPConfig{BaseURL: cfg.Webhook.URL, APIKey: cfg.Webhook.APIKey})
		if err != nil {
			return err
		}
		hooks = append(hooks, &pagebuilder.NotificationsHook{Client: client, Channel: cfg.Webhook.Channel})
	}
	telemetry := pagebuilder.ZapTelemetry{Logger: log.Named("telemetry")}
	service := pagebuilder.NewService(pagebuilder.Options{
		Registry:    registry,
		PageStore:   store,
		Themes:      pagebuilder.NewInMemoryThemeStore(),
		RefreshHook: hooks,
		Telemetry:   telemetry,
		Logger:      log,
	})

	if args.Seed != "" {
		if err := seed(ctx, service, args.Seed); err != nil {
			return err
		}
		log.Info("seeded landing page", zap.String("store", args.Seed))
	}

	controller, err := pagebuilder.NewController(service, pagebuilder.ControllerOptions{Cache: cache})
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        httpapi.NewCommandExecutor(service, telemetry),
		Broadcast:  broadcast,
		BasePath:   cfg.Server.BasePath,
	}); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	log.Info("page builder listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("cache", cfg.Cache.Driver),
		zap.Int("widgets", registry.Len()),
	)
	return server.Serve(cfg.Server.Addr)
}

func openStore(cfg config.StorageConfig, log *zap.Logger) (pagebuilder.PageStore, func(), error) {
	if cfg.Driver != "postgres" {
		return pagebuilder.NewInMemoryPageStore(), func() {}, nil
	}
	db, err := postgres.Connect(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { closeQuietly(db) }
	if cfg.Migrate {
		if err := postgres.Migrate(db, log); err != nil {
			closeDB()
			return nil, nil, err
		}
	}
	return postgres.NewStore(db), closeDB, nil
}

func openCache(ctx context.Context, cfg config.CacheConfig, log *zap.Logger) (pagebuilder.RenderCache, error) {
	switch cfg.Driver {
	case "redis":
		client, err := rediscache.Connect(ctx, cfg.Addr, cfg.Password, cfg.DB)
		if err != nil {
			return nil, err
		}
		return rediscache.New(client, rediscache.Options{
			Prefix: cfg.Prefix,
			TTL:    cfg.TTL,
			Logger: log.Named("cache"),
		}), nil
	case "memory":
		return pagebuilder.NewTTLRenderCache(cfg.TTL), nil
	default:
		return pagebuilder.NewTTLRenderCache(0), nil
	}
}

func seed(ctx context.Context, service *pagebuilder.Service, storeID string) error {
	doc, err := service.CreatePage(ctx, pagebuilder.CreatePageRequest{
		StoreID:  storeID,
		Title:    "Home",
		Slug:     "home",
		Template: pagebuilder.TemplateLanding,
	})
	if err != nil {
		return fmt.Errorf("seed page: %w", err)
	}
	_, err = service.Publish(ctx, pagebuilder.EditRequest{
		PageRef: pagebuilder.PageRef{StoreID: storeID, PageID: doc.ID},
	})
	return err
}

func closeQuietly(db *sql.DB) {
	_ = db.Close()
}
