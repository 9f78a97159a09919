package todos

import (
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

const todoID = "4dfc2d4c-0a07-4d6b-8a1c-3b0c1d0e7a11"

func newTestRouter(t *testing.T, store *fakeStore) (http.Handler, *shared.Session) {
	t.Helper()
	engine, err := view.NewEngine()
	require.NoError(t, err)

	sess := &shared.Session{ID: "s"}
	sess.SetUser("user-1")
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), newTestService(store, &fakeRevalidator{}), engine, shared.NewCSRFManager("secret"))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route(ListPath, h.MountRoutes)
	return r, sess
}

func post(router http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTodoHandlerListsUserTodos(t *testing.T) {
	store := newFakeStore()
	store.todos["user-1"] = []Todo{{ID: todoID, UserID: "user-1", Content: "Email Delba", Complete: true}}
	store.todos["user-2"] = []Todo{{ID: "other", UserID: "user-2", Content: "Not mine"}}
	router, _ := newTestRouter(t, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ListPath, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Email Delba")
	assert.Contains(t, body, `class="done"`)
	assert.NotContains(t, body, "Not mine")
}

func TestTodoHandlerCreate(t *testing.T) {
	store := newFakeStore()
	router, _ := newTestRouter(t, store)

	rec := post(router, ListPath, url.Values{"content": {"Call Amy"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, store.todos["user-1"], 1)

	rec = post(router, ListPath, url.Values{"content": {""}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), MsgContent)
}

func TestTodoHandlerToggleAndDelete(t *testing.T) {
	store := newFakeStore()
	store.todos["user-1"] = []Todo{{ID: todoID, UserID: "user-1", Content: "Email Delba"}}
	router, sess := newTestRouter(t, store)

	rec := post(router, ListPath+"/"+todoID+"/toggle", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, store.todos["user-1"][0].Complete)

	rec = post(router, ListPath+"/"+todoID+"/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, store.todos["user-1"])
	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, MsgDeleted, flash.Message)

	rec = post(router, ListPath+"/nope/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
