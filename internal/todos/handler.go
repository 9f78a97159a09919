package todos

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/odyssey-erp/invoice-dashboard/internal/platform/httpx"
	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
	"github.com/odyssey-erp/invoice-dashboard/internal/view"
)

// Handler wires HTTP endpoints for todos.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf}
}

// MountRoutes registers todo routes relative to /dashboard/todos.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{id}/toggle", h.toggle)
	r.Post("/{id}/delete", h.delete)
}

// Page is the view model of the todo list.
type Page struct {
	Todos   []Todo
	Content string
	State   State
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, Page{}, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	res := h.service.Create(r.Context(), shared.UserIDFromContext(r.Context()), r.PostForm)
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	status := http.StatusInternalServerError
	if len(res.State.Errors) > 0 {
		status = http.StatusBadRequest
	}
	h.renderPage(w, r, Page{Content: r.PostFormValue("content"), State: res.State}, status)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}
	res := h.service.Toggle(r.Context(), shared.UserIDFromContext(r.Context()), id)
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, Page{State: res.State}, http.StatusInternalServerError)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.todoID(w, r)
	if !ok {
		return
	}
	state := h.service.Delete(r.Context(), shared.UserIDFromContext(r.Context()), id)
	failed := state.Message != MsgDeleted

	if httpx.WantsJSON(r) {
		status := http.StatusOK
		if failed {
			status = http.StatusInternalServerError
		}
		httpx.JSON(w, status, httpx.Message{Message: state.Message})
		return
	}
	if failed {
		h.renderPage(w, r, Page{State: state}, http.StatusInternalServerError)
		return
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: state.Message})
	}
	http.Redirect(w, r, ListPath, http.StatusSeeOther)
}

func (h *Handler) todoID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return "", false
	}
	return id, true
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page Page, status int) {
	items, err := h.service.List(r.Context(), shared.UserIDFromContext(r.Context()))
	if err != nil {
		h.logger.Error("list todos", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	page.Todos = items

	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Todos",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		LoggedIn:    shared.LoggedIn(sess),
		Data:        page,
	}
	if err := h.templates.Render(w, status, "pages/todos.html", viewData); err != nil {
		h.logger.Error("template render failed", slog.Any("error", err), slog.String("template", "pages/todos.html"))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
