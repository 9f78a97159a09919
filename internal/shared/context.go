package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// UserIDFromContext returns the authenticated user bound to the request
// session, or "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	sess := SessionFromContext(ctx)
	if !LoggedIn(sess) {
		return ""
	}
	return sess.User()
}
