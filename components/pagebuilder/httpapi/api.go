package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/commands"
	"github.com/goliatone/go-pagebuilder/components/pagebuilder/queries"
)

// Handlers exposes net/http endpoints backed by the shared executor.
type Handlers struct {
	API       Executor
	Broadcast *pagebuilder.BroadcastHook
}

// Mount registers every route on mux under base (for example "/api").
func (h *Handlers) Mount(mux *http.ServeMux, base string) {
	base = strings.TrimRight(base, "/")
	store := base + "/stores/{store}"
	page := store + "/pages/{page}"
	mux.HandleFunc("GET "+base+"/palette", h.HandlePalette)
	mux.HandleFunc("GET "+base+"/templates", h.HandleTemplates)
	mux.HandleFunc("GET "+store+"/pages", h.HandleListPages)
	mux.HandleFunc("POST "+store+"/pages", h.HandleCreatePage)
	mux.HandleFunc("GET "+page, h.HandleGetPage)
	mux.HandleFunc("PUT "+page, h.HandleSavePage)
	mux.HandleFunc("DELETE "+page, h.HandleDeletePage)
	mux.HandleFunc("POST "+page+"/status", h.HandleSetStatus)
	mux.HandleFunc("GET "+page+"/render", h.HandleRenderPage)
	mux.HandleFunc("POST "+page+"/widgets", h.HandleAddWidget)
	mux.HandleFunc("POST "+page+"/widgets/{widget}/move", h.HandleMoveWidget)
	mux.HandleFunc("PATCH "+page+"/widgets/{widget}", h.HandleUpdateWidgetProps)
	mux.HandleFunc("DELETE "+page+"/widgets/{widget}", h.HandleRemoveWidget)
	mux.HandleFunc("POST "+page+"/widgets/{widget}/duplicate", h.HandleDuplicateWidget)
	mux.HandleFunc("GET "+page+"/widgets/{widget}/form", h.HandleWidgetForm)
	mux.HandleFunc("POST "+base+"/refresh", h.HandleRefresh)
	mux.HandleFunc("GET "+store+"/storefront/{slug...}", h.HandleStorefront)
	if h.Broadcast != nil {
		mux.HandleFunc("GET "+base+"/events/ws", h.Broadcast.ServeWebSocket)
		mux.HandleFunc("GET "+base+"/events/sse", h.Broadcast.ServeSSE)
	}
}

func (h *Handlers) HandlePalette(w http.ResponseWriter, r *http.Request) {
	items, err := h.API.Palette(r.Context(), queries.PaletteInput{
		Locale:   r.URL.Query().Get("locale"),
		Category: r.URL.Query().Get("category"),
	})
	respond(w, http.StatusOK, items, err)
}

func (h *Handlers) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.API.Templates(r.Context())
	respond(w, http.StatusOK, templates, err)
}

func (h *Handlers) HandleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.API.Pages(r.Context(), queries.PageListInput{StoreID: r.PathValue("store")})
	respond(w, http.StatusOK, pages, err)
}

func (h *Handlers) HandleCreatePage(w http.ResponseWriter, r *http.Request) {
	var payload pagebuilder.CreatePageRequest
	if !decode(w, r, &payload) {
		return
	}
	payload.StoreID = r.PathValue("store")
	doc, err := h.API.CreatePage(r.Context(), payload)
	respond(w, http.StatusCreated, doc, err)
}

func (h *Handlers) HandleGetPage(w http.ResponseWriter, r *http.Request) {
	doc, err := h.API.Page(r.Context(), pageRef(r))
	respond(w, http.StatusOK, doc, err)
}

func (h *Handlers) HandleSavePage(w http.ResponseWriter, r *http.Request) {
	var payload commands.SavePageInput
	if !decode(w, r, &payload) {
		return
	}
	if payload.Document != nil {
		ref := pageRef(r)
		payload.Document.StoreID = ref.StoreID
		payload.Document.ID = ref.PageID
	}
	doc, err := h.API.SavePage(r.Context(), payload)
	respond(w, http.StatusOK, doc, err)
}

func (h *Handlers) HandleDeletePage(w http.ResponseWriter, r *http.Request) {
	if err := h.API.DeletePage(r.Context(), pageRef(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetPageStatusInput
	if !decode(w, r, &payload) {
		return
	}
	payload.PageRef = pageRef(r)
	doc, err := h.API.SetStatus(r.Context(), payload)
	respond(w, http.StatusOK, doc, err)
}

func (h *Handlers) HandleRenderPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.API.Render(r.Context(), queries.RenderPageInput{Ref: pageRef(r), Theme: themeFromQuery(r)})
	respond(w, http.StatusOK, page, err)
}

func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request) {
	var payload pagebuilder.AddWidgetRequest
	if !decode(w, r, &payload) {
		return
	}
	payload.PageRef = pageRef(r)
	instance, err := h.API.AddWidget(r.Context(), payload)
	respond(w, http.StatusCreated, instance, err)
}

func (h *Handlers) HandleMoveWidget(w http.ResponseWriter, r *http.Request) {
	var payload pagebuilder.MoveWidgetRequest
	if !decode(w, r, &payload) {
		return
	}
	payload.PageRef = pageRef(r)
	payload.WidgetID = r.PathValue("widget")
	err := h.API.MoveWidget(r.Context(), payload)
	respond(w, http.StatusOK, map[string]string{"status": "moved"}, err)
}

func (h *Handlers) HandleUpdateWidgetProps(w http.ResponseWriter, r *http.Request) {
	var payload pagebuilder.UpdateWidgetPropsRequest
	if !decode(w, r, &payload) {
		return
	}
	payload.PageRef = pageRef(r)
	payload.WidgetID = r.PathValue("widget")
	instance, err := h.API.UpdateWidgetProps(r.Context(), payload)
	respond(w, http.StatusOK, instance, err)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	req := pagebuilder.WidgetRequest{
		EditRequest: pagebuilder.EditRequest{PageRef: pageRef(r)},
		WidgetID:    r.PathValue("widget"),
	}
	if err := h.API.RemoveWidget(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleDuplicateWidget(w http.ResponseWriter, r *http.Request) {
	req := pagebuilder.WidgetRequest{
		EditRequest: pagebuilder.EditRequest{PageRef: pageRef(r)},
		WidgetID:    r.PathValue("widget"),
	}
	instance, err := h.API.DuplicateWidget(r.Context(), req)
	respond(w, http.StatusCreated, instance, err)
}

func (h *Handlers) HandleWidgetForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.API.WidgetForm(r.Context(), queries.WidgetFormInput{
		Ref:      pageRef(r),
		WidgetID: r.PathValue("widget"),
		Locale:   r.URL.Query().Get("locale"),
	})
	respond(w, http.StatusOK, form, err)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshPageInput
	if !decode(w, r, &payload) {
		return
	}
	err := h.API.Refresh(r.Context(), payload)
	respond(w, http.StatusAccepted, map[string]string{"status": "queued"}, err)
}

func (h *Handlers) HandleStorefront(w http.ResponseWriter, r *http.Request) {
	page, err := h.API.Storefront(r.Context(), queries.StorefrontInput{
		StoreID: r.PathValue("store"),
		Slug:    r.PathValue("slug"),
	})
	respond(w, http.StatusOK, page, err)
}

func pageRef(r *http.Request) pagebuilder.PageRef {
	return pagebuilder.PageRef{StoreID: r.PathValue("store"), PageID: r.PathValue("page")}
}

// themeFromQuery reads "theme.<token>=value" query parameters as overrides.
func themeFromQuery(r *http.Request) pagebuilder.ThemeTokens {
	var tokens pagebuilder.ThemeTokens
	for key, values := range r.URL.Query() {
		name, ok := strings.CutPrefix(key, "theme.")
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		if tokens == nil {
			tokens = pagebuilder.ThemeTokens{}
		}
		tokens[name] = values[0]
	}
	return tokens
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, payload any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, payload)
}

func writeError(w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	writeJSON(w, ErrorStatus(err), NewErrorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
