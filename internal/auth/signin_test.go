package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
)

func newTestAuthenticator(p Provider) *Authenticator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthenticator(logger, shared.NewSessionManager(nil, "test_session", 0, false), shared.NewCSRFManager("secret"), map[string]Provider{ProviderCredentials: p})
}

func sessionContext() (context.Context, *shared.Session) {
	sess := &shared.Session{ID: "pre-login"}
	return shared.ContextWithSession(context.Background(), sess), sess
}

func TestSignInBindsUserAndRenewsSession(t *testing.T) {
	a := newTestAuthenticator(ProviderFunc(func(context.Context, Credentials) (*User, error) {
		return &User{ID: "user-1"}, nil
	}))
	ctx, sess := sessionContext()
	sess.Set(shared.CSRFSessionKey, "old-token")

	user, err := a.SignIn(ctx, ProviderCredentials, Credentials{Email: "user@nextmail.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "user-1", sess.User())
	assert.NotEqual(t, "pre-login", sess.ID)
	assert.Empty(t, sess.Get(shared.CSRFSessionKey))
}

func TestSignInFailureKinds(t *testing.T) {
	cases := map[string]struct {
		provider string
		err      error
		want     FailureKind
	}{
		"invalid credentials": {ProviderCredentials, shared.ErrInvalidCredentials, KindCredentialsSignin},
		"storage failure":     {ProviderCredentials, errors.New("db down"), KindCallbackRoute},
		"unknown provider":    {"github", nil, KindInvalidProvider},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a := newTestAuthenticator(ProviderFunc(func(context.Context, Credentials) (*User, error) {
				return nil, tc.err
			}))
			ctx, sess := sessionContext()

			_, err := a.SignIn(ctx, tc.provider, Credentials{})
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tc.want, authErr.Kind)
			assert.Empty(t, sess.User())
		})
	}
}

func TestSignInStorageFailureWrapsCause(t *testing.T) {
	cause := errors.New("db down")
	a := newTestAuthenticator(ProviderFunc(func(context.Context, Credentials) (*User, error) {
		return nil, cause
	}))
	ctx, _ := sessionContext()

	_, err := a.SignIn(ctx, ProviderCredentials, Credentials{})
	assert.ErrorIs(t, err, cause)
}

func TestSignInWithoutSession(t *testing.T) {
	a := newTestAuthenticator(ProviderFunc(func(context.Context, Credentials) (*User, error) {
		return &User{ID: "user-1"}, nil
	}))
	_, err := a.SignIn(context.Background(), ProviderCredentials, Credentials{})
	assert.ErrorIs(t, err, shared.ErrSessionMissing)
}

func TestSignOutDestroysSession(t *testing.T) {
	a := newTestAuthenticator(nil)
	ctx, sess := sessionContext()
	sess.SetUser("user-1")

	require.NoError(t, a.SignOut(ctx))
	assert.False(t, shared.LoggedIn(sess))
	assert.ErrorIs(t, a.SignOut(context.Background()), shared.ErrSessionMissing)
}
