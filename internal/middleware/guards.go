package middleware

import (
	"net/http"
)

// RequireAuth guards private views: anonymous sessions are sent to the
// login page. SessionLoader has already resolved the session, so the guard
// never acts on a session that is still loading.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if !sess.Authenticated() {
			http.Redirect(w, r, "/ingresar", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PublicOnly guards login and registration: a signed-in user with a loaded
// record is sent to the dashboard instead.
func PublicOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess.Authenticated() && sess.HasUser() {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
