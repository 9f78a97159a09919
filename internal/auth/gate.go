package auth

import "strings"

const (
	// ProtectedPrefix guards every page that requires a signed-in user.
	ProtectedPrefix = "/dashboard"
	// HomePath is where signed-in users land.
	HomePath = "/dashboard"
	// LoginPath serves the sign-in form.
	LoginPath = "/login"
)

// Decision is the Session Gate outcome for one request.
type Decision int

const (
	// DecisionAllow lets the request through.
	DecisionAllow Decision = iota
	// DecisionDeny sends the caller to the login page.
	DecisionDeny
	// DecisionRedirectHome sends a signed-in caller to the dashboard home.
	DecisionRedirectHome
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDeny:
		return "deny"
	case DecisionRedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Authorize decides access for path given whether a session user exists.
func Authorize(loggedIn bool, path string) Decision {
	if strings.HasPrefix(path, ProtectedPrefix) {
		if loggedIn {
			return DecisionAllow
		}
		return DecisionDeny
	}
	if loggedIn {
		return DecisionRedirectHome
	}
	return DecisionAllow
}
