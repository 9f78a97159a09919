package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
	"github.com/odyssey-erp/invoice-dashboard/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	action        *Action
	authenticator *Authenticator
	templates     *view.Engine
	csrf          *shared.CSRFManager
	loginLimit    int
}

// NewHandler constructs a Handler instance. loginLimit caps POST /login
// requests per client IP and minute; zero disables the limit.
func NewHandler(logger *slog.Logger, action *Action, authenticator *Authenticator, templates *view.Engine, csrf *shared.CSRFManager, loginLimit int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:        logger,
		action:        action,
		authenticator: authenticator,
		templates:     templates,
		csrf:          csrf,
		loginLimit:    loginLimit,
	}
}

// MountRoutes registers the login form routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get(LoginPath, h.showLogin)
	if h.loginLimit > 0 {
		r.With(httprate.LimitByIP(h.loginLimit, time.Minute)).Post(LoginPath, h.handleLogin)
	} else {
		r.Post(LoginPath, h.handleLogin)
	}
}

// Logout signs the session user out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authenticator.SignOut(r.Context()); err != nil {
		h.logger.Warn("sign out", slog.Any("error", err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginPage is the view model of the login form.
type LoginPage struct {
	Email      string
	RedirectTo string
	Message    string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, LoginPage{RedirectTo: r.URL.Query().Get("callbackUrl")}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	res, err := h.action.Authenticate(r.Context(), r.PostFormValue("state"), r.PostForm)
	if err != nil {
		h.logger.Error("authenticate", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	h.render(w, r, LoginPage{
		Email:      r.PostFormValue("email"),
		RedirectTo: r.PostFormValue("redirectTo"),
		Message:    res.Message,
	}, http.StatusUnauthorized)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page LoginPage, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)

	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Login",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        page,
	}
	if err := h.templates.Render(w, status, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
