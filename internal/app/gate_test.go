package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
)

type countingRecorder map[string]int

func (c countingRecorder) RecordGate(decision string) { c[decision]++ }

func gated(t *testing.T, loggedIn bool, target string, rec countingRecorder) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	sess := &shared.Session{ID: "s"}
	if loggedIn {
		sess.SetUser("user-1")
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rr := httptest.NewRecorder()
	SessionGate(nil, rec)(next).ServeHTTP(rr, req)
	return rr
}

func TestSessionGateDeniesAnonymousDashboard(t *testing.T) {
	rec := countingRecorder{}
	rr := gated(t, false, "/dashboard/invoices?page=2", rec)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard%2Finvoices%3Fpage%3D2", rr.Header().Get("Location"))
	assert.Equal(t, 1, rec["deny"])
}

func TestSessionGateRedirectsSignedInVisitorsHome(t *testing.T) {
	rr := gated(t, true, "/login", countingRecorder{})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestSessionGateAllows(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, gated(t, true, "/dashboard", countingRecorder{}).Code)
	assert.Equal(t, http.StatusNoContent, gated(t, false, "/login", countingRecorder{}).Code)
}

func TestSessionGateSkipsExcludedPaths(t *testing.T) {
	rec := countingRecorder{}
	for _, path := range []string{"/static/css/app.css", "/healthz", "/metrics", "/jobs/health"} {
		assert.Equal(t, http.StatusNoContent, gated(t, true, path, rec).Code, path)
	}
	assert.Empty(t, rec)
}
