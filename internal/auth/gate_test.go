package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		loggedIn bool
		path     string
		want     Decision
	}{
		{true, "/dashboard", DecisionAllow},
		{true, "/dashboard/invoices/create", DecisionAllow},
		{false, "/dashboard", DecisionDeny},
		{false, "/dashboard/invoices", DecisionDeny},
		{true, "/login", DecisionRedirectHome},
		{true, "/", DecisionRedirectHome},
		{false, "/login", DecisionAllow},
		{false, "/", DecisionAllow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Authorize(tc.loggedIn, tc.path), "%v %s", tc.loggedIn, tc.path)
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", DecisionAllow.String())
	assert.Equal(t, "deny", DecisionDeny.String())
	assert.Equal(t, "redirect_home", DecisionRedirectHome.String())
	assert.Equal(t, "unknown", Decision(42).String())
}
