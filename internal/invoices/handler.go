package invoices

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/odyssey-erp/invoice-dashboard/internal/platform/httpx"
	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
	"github.com/odyssey-erp/invoice-dashboard/internal/view"
)

// Handler wires HTTP endpoints for invoices.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	lister    *Lister
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, lister *Lister, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		lister:    lister,
		templates: templates,
		csrf:      csrf,
	}
}

// MountRoutes registers invoice routes relative to /dashboard/invoices.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/create", h.showCreate)
	r.Get("/{id}/edit", h.showEdit)
	r.Post("/{id}", h.update)
	r.Post("/{id}/delete", h.delete)
}

// FormValues echoes submitted values back into the form.
type FormValues struct {
	CustomerID string
	Amount     string
	Status     string
}

// FormPage is the view model of the create and edit forms.
type FormPage struct {
	Heading   string
	Action    string
	Submit    string
	Customers []Customer
	Values    FormValues
	State     State
}

// ListPage is the view model of the listing.
type ListPage struct {
	Listing Listing
	State   State
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, State{}, http.StatusOK)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, state State, status int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	listing, err := h.lister.Page(r.Context(), page)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/invoices_list.html", "Invoices", ListPage{Listing: listing, State: state}, status)
}

func (h *Handler) showCreate(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, FormPage{
		Heading: "Create Invoice",
		Action:  ListingPath,
		Submit:  "Create Invoice",
	}, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	res := h.service.Create(r.Context(), State{}, r.PostForm)
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, FormPage{
		Heading: "Create Invoice",
		Action:  ListingPath,
		Submit:  "Create Invoice",
		Values:  submitted(r),
		State:   res.State,
	}, stateStatus(res.State))
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validID(id) {
		h.notFound(w, r)
		return
	}
	inv, err := h.lister.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.logger.Error("get invoice", slog.String("id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.renderForm(w, r, FormPage{
		Heading: "Edit Invoice",
		Action:  ListingPath + "/" + inv.ID,
		Submit:  "Edit Invoice",
		Values: FormValues{
			CustomerID: inv.CustomerID,
			Amount:     strconv.FormatFloat(float64(inv.Amount)/100, 'f', 2, 64),
			Status:     string(inv.Status),
		},
	}, http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validID(id) {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	res := h.service.Update(r.Context(), id, State{}, r.PostForm)
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, FormPage{
		Heading: "Edit Invoice",
		Action:  ListingPath + "/" + id,
		Submit:  "Edit Invoice",
		Values:  submitted(r),
		State:   res.State,
	}, stateStatus(res.State))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	// A malformed id matches no row, which deletes as a no-op.
	state := State{Message: MsgDeleted}
	if id := chi.URLParam(r, "id"); validID(id) {
		state = h.service.Delete(r.Context(), id)
	}
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
		h.renderList(w, r, state, http.StatusInternalServerError)
		return
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: state.Message})
	}
	http.Redirect(w, r, ListingPath, http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, page FormPage, status int) {
	customers, err := h.lister.Customers(r.Context())
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	page.Customers = customers
	h.render(w, r, "pages/invoice_form.html", page.Heading, page, status)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/not_found.html", "Not Found", "Could not find the requested invoice.", http.StatusNotFound)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, tmpl, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)

	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}

	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		LoggedIn:    shared.LoggedIn(sess),
		Data:        data,
	}
	if err := h.templates.Render(w, status, tmpl, viewData); err != nil {
		h.logger.Error("template render failed", slog.Any("error", err), slog.String("template", tmpl))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func submitted(r *http.Request) FormValues {
	return FormValues{
		CustomerID: r.PostFormValue("customerId"),
		Amount:     r.PostFormValue("amount"),
		Status:     r.PostFormValue("status"),
	}
}

// stateStatus maps a failed mutation to its response code: field errors are
// the caller's fault, anything else is ours.
func stateStatus(state State) int {
	if len(state.Errors) > 0 {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
