package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dario.cat/mergo"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/commands"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/httpapi"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/queries"
)

// StoreResolver extracts the store a request belongs to.
type StoreResolver func(router.Context) string

// Config wires go-router with page builder controllers, APIs, and hooks.
type Config[T any] struct {
	Router        router.Router[T]
	Controller    *pagebuilder.Controller
	API           httpapi.Executor
	Broadcast     *pagebuilder.BroadcastHook
	StoreResolver StoreResolver
	BasePath      string
	Routes        RouteConfig
}

// RouteConfig customizes the relative paths used for page builder endpoints.
type RouteConfig struct {
	Storefront string
	Preview    string
	Pages      string
	PageID     string
	Status     string
	Render     string
	Widgets    string
	WidgetID   string
	Move       string
	Duplicate  string
	Form       string
	Palette    string
	Templates  string
	Refresh    string
	WebSocket  string
}

// Register mounts page builder routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil && cfg.API == nil {
		return errors.New("gorouter: controller or api is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/"
	}
	resolver := cfg.StoreResolver
	if resolver == nil {
		resolver = defaultStoreResolver
	}

	group := cfg.Router.Group(base)

	if cfg.Controller != nil {
		registerHTML(group, cfg.Controller, resolver, routes)
	}
	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes)
	}
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, resolver, routes.WebSocket)
	}
	return nil
}

func registerHTML[T any](r router.Router[T], controller *pagebuilder.Controller, resolver StoreResolver, routes RouteConfig) {
	r.Get(routes.Storefront, router.WrapHandler(func(ctx router.Context) error {
		html, err := controller.Storefront(ctx.Context(), resolver(ctx), ctx.Param("slug"), inferLocale(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))

	r.Get(routes.Preview, router.WrapHandler(func(ctx router.Context) error {
		ref := pagebuilder.PageRef{StoreID: resolver(ctx), PageID: ctx.Param("id")}
		html, err := controller.Preview(ctx.Context(), ref, themeOverrides(ctx), inferLocale(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver StoreResolver, routes RouteConfig) {
	pageRef := func(ctx router.Context) pagebuilder.PageRef {
		return pagebuilder.PageRef{StoreID: resolver(ctx), PageID: ctx.Param("id")}
	}

	r.Get(routes.Palette, router.WrapHandler(func(ctx router.Context) error {
		items, err := api.Palette(ctx.Context(), queries.PaletteInput{Locale: inferLocale(ctx), Category: ctx.Query("category")})
		return respond(ctx, http.StatusOK, items, err)
	}))

	r.Get(routes.Templates, router.WrapHandler(func(ctx router.Context) error {
		templates, err := api.Templates(ctx.Context())
		return respond(ctx, http.StatusOK, templates, err)
	}))

	r.Get(routes.Pages, router.WrapHandler(func(ctx router.Context) error {
		pages, err := api.Pages(ctx.Context(), queries.PageListInput{StoreID: resolver(ctx)})
		return respond(ctx, http.StatusOK, pages, err)
	}))

	r.Post(routes.Pages, router.WrapHandler(func(ctx router.Context) error {
		var payload pagebuilder.CreatePageRequest
		if err := decode(ctx, &payload); err != nil {
			return err
		}
		payload.StoreID = resolver(ctx)
		doc, err := api.CreatePage(ctx.Context(), payload)
		return respond(ctx, http.StatusCreated, doc, err)
	}))

	r.Get(routes.PageID, router.WrapHandler(func(ctx router.Context) error {
		doc, err := api.Page(ctx.Context(), pageRef(ctx))
		return respond(ctx, http.StatusOK, doc, err)
	}))

	r.Put(routes.PageID, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SavePageInput
		if err := decode(ctx, &payload); err != nil {
			return err
		}
		if payload.Document != nil {
			ref := pageRef(ctx)
			payload.Document.StoreID = ref.StoreID
			payload.Document.ID = ref.PageID
		}
		doc, err := api.SavePage(ctx.Context(), payload)
		return respond(ctx, http.StatusOK, doc, err)
	}))

	r.Delete(routes.PageID, router.WrapHandler(func(ctx router.Context) error {
		err := api.DeletePage(ctx.Context(), pageRef(ctx))
		return respond(ctx, http.StatusOK, map[string]string{"status": "deleted"}, err)
	}))

	r.Post(routes.Status, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetPageStatusInput
		if err := decode(ctx, &payload); err != nil {
			return err
		}
		payload.PageRef = pageRef(ctx)
		doc, err := api.SetStatus(ctx.Context(), payload)
		return respond(ctx, http.StatusOK, doc, err)
	}))

	r.Get(routes.Render, router.WrapHandler(func(ctx router.Context) error {
		page, err := api.Render(ctx.Context(), queries.RenderPageInput{Ref: pageRef(ctx), Theme: themeOverrides(ctx)})
		return respond(ctx, http.StatusOK, page, err)
	}))

	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload pagebuilder.AddWidgetRequest
		if err := decode(ctx, &payload); err != nil {
			return err
		}
		payload.PageRef = pageRef(ctx)
		instance, err := api.AddWidget(ctx.Context(), payload)
		return respond(ctx, http.StatusCreated, instance, err)
	}))

	r.Patch(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		var payload pagebuilder.UpdateWidgetPropsRequest
		if err := decode(ctx, &payload); err != nil {
			return err
		}
		payload.PageRef = pageRef(ctx)
		payload.WidgetID = ctx.Param("widget")
		instance, err := api.UpdateWidgetProps(ctx.Context(), payload)
		return respond(ctx, http.StatusOK, instance, err)
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		err := api.RemoveWidget(ctx.Context(), widgetRequest(ctx, pageRef(ctx)))
		return respond(ctx, http.StatusOK, map[string]string{"status": "removed"}, err)
	}))

	r.Post(routes.Move, router.WrapHandler(func(ctx router.Context) error {
		var payload pagebuilder.MoveWidgetRequest
		if err := decode(ctx, &payload); err != nil {
			return err
		}
		payload.PageRef = pageRef(ctx)
		payload.WidgetID = ctx.Param("widget")
		err := api.MoveWidget(ctx.Context(), payload)
		return respond(ctx, http.StatusOK, map[string]string{"status": "moved"}, err)
	}))

	r.Post(routes.Duplicate, router.WrapHandler(func(ctx router.Context) error {
		instance, err := api.DuplicateWidget(ctx.Context(), widgetRequest(ctx, pageRef(ctx)))
		return respond(ctx, http.StatusCreated, instance, err)
	}))

	r.Get(routes.Form, router.WrapHandler(func(ctx router.Context) error {
		form, err := api.WidgetForm(ctx.Context(), queries.WidgetFormInput{
			Ref:      pageRef(ctx),
			WidgetID: ctx.Param("widget"),
			Locale:   inferLocale(ctx),
		})
		return respond(ctx, http.StatusOK, form, err)
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshPageInput
		if err := decode(ctx, &payload); err != nil {
			return err
		}
		if payload.Event.StoreID == "" {
			payload.Event.StoreID = resolver(ctx)
		}
		err := api.Refresh(ctx.Context(), payload)
		return respond(ctx, http.StatusAccepted, map[string]string{"status": "queued"}, err)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *pagebuilder.BroadcastHook, resolver StoreResolver, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe(resolver(ws))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func widgetRequest(ctx router.Context, ref pagebuilder.PageRef) pagebuilder.WidgetRequest {
	return pagebuilder.WidgetRequest{
		EditRequest: pagebuilder.EditRequest{PageRef: ref},
		WidgetID:    ctx.Param("widget"),
	}
}

func defaultStoreResolver(ctx router.Context) string {
	if v, ok := ctx.Locals("store_id").(string); ok && v != "" {
		return v
	}
	if v := strings.TrimSpace(ctx.Param("store")); v != "" {
		return v
	}
	return strings.TrimSpace(ctx.Query("store_id"))
}

func themeOverrides(ctx router.Context) pagebuilder.ThemeTokens {
	raw := strings.TrimSpace(ctx.Query("theme"))
	if raw == "" {
		return nil
	}
	var tokens pagebuilder.ThemeTokens
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		return nil
	}
	return tokens
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token = strings.TrimSpace(token); token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func decode(ctx router.Context, dst any) error {
	body := ctx.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return ctx.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: err.Error()})
	}
	return nil
}

func respond(ctx router.Context, status int, payload any, err error) error {
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(status, payload)
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.ErrorStatus(err), httpapi.NewErrorResponse(err))
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	defaults := RouteConfig{
		Storefront: "/stores/:store/p/:slug",
		Preview:    "/stores/:store/pages/:id/preview",
		Pages:      "/api/stores/:store/pages",
		PageID:     "/api/stores/:store/pages/:id",
		Status:     "/api/stores/:store/pages/:id/status",
		Render:     "/api/stores/:store/pages/:id/render",
		Widgets:    "/api/stores/:store/pages/:id/widgets",
		WidgetID:   "/api/stores/:store/pages/:id/widgets/:widget",
		Move:       "/api/stores/:store/pages/:id/widgets/:widget/move",
		Duplicate:  "/api/stores/:store/pages/:id/widgets/:widget/duplicate",
		Form:       "/api/stores/:store/pages/:id/widgets/:widget/form",
		Palette:    "/api/palette",
		Templates:  "/api/templates",
		Refresh:    "/api/stores/:store/refresh",
		WebSocket:  "/api/stores/:store/events",
	}
	// Without WithOverride only the empty fields are filled.
	if err := mergo.Merge(&routes, defaults); err != nil {
		return defaults
	}
	return routes
}
