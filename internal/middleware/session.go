package middleware

import (
	"context"
	"net/http"

	"github.com/safelease/accounts-web/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionLoader restores the browser session from the token cookies before
// any guard or view runs. Bootstrap resolves synchronously, so downstream
// decisions never race a half-restored session. Rotated or cleared tokens
// are written back to the slots on the way in.
func SessionLoader(manager *session.Manager, cookies *session.CookieStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, refresh := cookies.Read(r)
			sess := manager.Bootstrap(r.Context(), access, refresh)
			if sess.TokensChanged {
				cookies.Write(w, sess.Access, sess.Refresh)
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the session attached to the request context by
// SessionLoader.
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}
