package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
)

// ProviderCredentials is the only provider registered by the dashboard.
const ProviderCredentials = "credentials"

// FailureKind classifies sign-in failures.
type FailureKind string

const (
	// KindCredentialsSignin means the supplied credentials did not match a user.
	KindCredentialsSignin FailureKind = "CredentialsSignin"
	// KindCallbackRoute means the provider failed while authorising.
	KindCallbackRoute FailureKind = "CallbackRouteError"
	// KindInvalidProvider means the requested provider is not registered.
	KindInvalidProvider FailureKind = "InvalidProvider"
)

// AuthError is a sign-in failure with a known kind.
type AuthError struct {
	Kind FailureKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth: " + string(e.Kind)
	}
	return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Provider resolves credentials to a user.
type Provider interface {
	Authorize(ctx context.Context, creds Credentials) (*User, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, creds Credentials) (*User, error)

// Authorize calls f.
func (f ProviderFunc) Authorize(ctx context.Context, creds Credentials) (*User, error) {
	return f(ctx, creds)
}

// CredentialsProvider returns the email/password provider backed by svc.
func CredentialsProvider(svc *Service) Provider {
	return ProviderFunc(func(ctx context.Context, creds Credentials) (*User, error) {
		return svc.Verify(ctx, creds.Email, creds.Password)
	})
}

// Authenticator signs users in and out of the request session.
type Authenticator struct {
	logger    *slog.Logger
	sessions  *shared.SessionManager
	csrf      *shared.CSRFManager
	providers map[string]Provider
}

// NewAuthenticator constructs an Authenticator over the given providers.
func NewAuthenticator(logger *slog.Logger, sessions *shared.SessionManager, csrf *shared.CSRFManager, providers map[string]Provider) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{logger: logger, sessions: sessions, csrf: csrf, providers: providers}
}

// SignIn authenticates creds through provider and binds the user to the
// session stored in ctx. Failures with a known kind are *AuthError.
func (a *Authenticator) SignIn(ctx context.Context, provider string, creds Credentials) (*User, error) {
	p, ok := a.providers[provider]
	if !ok {
		return nil, &AuthError{Kind: KindInvalidProvider, Err: fmt.Errorf("provider %q", provider)}
	}
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return nil, shared.ErrSessionMissing
	}

	user, err := p.Authorize(ctx, creds)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			a.logger.Info("invalid credentials", slog.String("provider", provider))
			return nil, &AuthError{Kind: KindCredentialsSignin}
		}
		a.logger.Error("authorize credentials", slog.String("provider", provider), slog.Any("error", err))
		return nil, &AuthError{Kind: KindCallbackRoute, Err: err}
	}

	a.sessions.Renew(sess)
	a.csrf.Rotate(sess)
	sess.SetUser(user.ID)
	return user, nil
}

// SignOut destroys the session stored in ctx.
func (a *Authenticator) SignOut(ctx context.Context) error {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return shared.ErrSessionMissing
	}
	a.sessions.Destroy(sess)
	return nil
}
