package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
	"github.com/odyssey-erp/invoice-dashboard/internal/view"
)

func newTestRouter(t *testing.T, p Provider, sess *shared.Session) http.Handler {
	t.Helper()
	engine, err := view.NewEngine()
	require.NoError(t, err)

	authn := newTestAuthenticator(p)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewAction(authn), authn, engine, shared.NewCSRFManager("secret"), 0)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	h.MountRoutes(r)
	r.Post("/dashboard/logout", h.Logout)
	return r
}

func postLogin(router http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, LoginPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginPageCarriesCallback(t *testing.T) {
	router := newTestRouter(t, nil, &shared.Session{ID: "s"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, LoginPath+"?callbackUrl=%2Fdashboard%2Finvoices", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="redirectTo" value="/dashboard/invoices"`)
}

func TestLoginSuccessRedirects(t *testing.T) {
	sess := &shared.Session{ID: "s"}
	router := newTestRouter(t, ProviderFunc(func(_ context.Context, creds Credentials) (*User, error) {
		return &User{ID: "user-1", Email: creds.Email}, nil
	}), sess)

	rec := postLogin(router, url.Values{"email": {"user@nextmail.com"}, "password": {"123456"}, "redirectTo": {"/dashboard/todos"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard/todos", rec.Header().Get("Location"))
	assert.Equal(t, "user-1", sess.User())
}

func TestLoginInvalidCredentialsRerenders(t *testing.T) {
	router := newTestRouter(t, ProviderFunc(func(context.Context, Credentials) (*User, error) {
		return nil, shared.ErrInvalidCredentials
	}), &shared.Session{ID: "s"})

	rec := postLogin(router, url.Values{"email": {"user@nextmail.com"}, "password": {"wrong-password"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, MessageInvalidCredentials)
	assert.Contains(t, body, `value="user@nextmail.com"`)
}

func TestLoginStorageFailureShowsGenericMessage(t *testing.T) {
	router := newTestRouter(t, ProviderFunc(func(context.Context, Credentials) (*User, error) {
		return nil, errors.New("db down")
	}), &shared.Session{ID: "s"})

	rec := postLogin(router, url.Values{"email": {"user@nextmail.com"}, "password": {"123456"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), MessageSomethingWrong)
}

func TestLogoutDestroysSession(t *testing.T) {
	sess := &shared.Session{ID: "s"}
	sess.SetUser("user-1")
	router := newTestRouter(t, nil, sess)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.False(t, shared.LoggedIn(sess))
}
