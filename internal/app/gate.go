package app

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/odyssey-erp/invoice-dashboard/internal/auth"
	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
)

// gateExcluded lists path prefixes the session gate never sees.
var gateExcluded = []string{"/static/", "/healthz", "/metrics", "/jobs/"}

// GateRecorder counts gate decisions.
type GateRecorder interface {
	RecordGate(decision string)
}

// SessionGate applies auth.Authorize ahead of every page handler. Denied
// requests go to the login page carrying the original URL as callbackUrl.
func SessionGate(logger *slog.Logger, recorder GateRecorder) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gateSkips(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			decision := auth.Authorize(shared.LoggedIn(shared.SessionFromContext(r.Context())), r.URL.Path)
			if recorder != nil {
				recorder.RecordGate(decision.String())
			}
			switch decision {
			case auth.DecisionDeny:
				logger.Debug("gate denied", slog.String("path", r.URL.Path))
				target := auth.LoginPath + "?" + url.Values{"callbackUrl": {r.URL.RequestURI()}}.Encode()
				http.Redirect(w, r, target, http.StatusSeeOther)
			case auth.DecisionRedirectHome:
				http.Redirect(w, r, auth.HomePath, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func gateSkips(path string) bool {
	for _, prefix := range gateExcluded {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
