package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

const (
	// MessageInvalidCredentials is shown for a credentials mismatch.
	MessageInvalidCredentials = "Invalid credentials."
	// MessageSomethingWrong is shown for every other known sign-in failure.
	MessageSomethingWrong = "Something went wrong."
)

// SignInner is the authentication collaborator used by Action.
type SignInner interface {
	SignIn(ctx context.Context, provider string, creds Credentials) (*User, error)
}

// LoginResult is the outcome of a login submission. Exactly one of Message
// or Redirect is set.
type LoginResult struct {
	Message  string
	Redirect string
}

// Action runs the login form submission.
type Action struct {
	signer SignInner
}

// NewAction constructs an Action.
func NewAction(signer SignInner) *Action {
	return &Action{signer: signer}
}

// Authenticate signs in with the submitted credentials. prevState is the
// message shown by the previous attempt and does not influence the result.
// Errors that are not *AuthError are returned unchanged.
func (a *Action) Authenticate(ctx context.Context, prevState string, form url.Values) (LoginResult, error) {
	creds := Credentials{
		Email:    strings.TrimSpace(form.Get("email")),
		Password: form.Get("password"),
	}
	if _, err := a.signer.SignIn(ctx, ProviderCredentials, creds); err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			return LoginResult{}, err
		}
		if authErr.Kind == KindCredentialsSignin {
			return LoginResult{Message: MessageInvalidCredentials}, nil
		}
		return LoginResult{Message: MessageSomethingWrong}, nil
	}
	return LoginResult{Redirect: SafeRedirect(form.Get("redirectTo"))}, nil
}

// SafeRedirect returns target when it is a local absolute path, otherwise
// the dashboard home.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return HomePath
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return HomePath
	}
	return u.RequestURI()
}
