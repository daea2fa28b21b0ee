package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	csrfCookie = "safelease_csrf"
	// CSRFField is the hidden form field carrying the token.
	CSRFField = "csrf_token"
)

const csrfKey contextKey = "csrf"

// CSRF issues a per-browser token cookie and rejects mutating form posts
// whose hidden field does not match it.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(csrfCookie); err == nil {
			token = c.Value
		}
		if token == "" {
			token = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		if r.Method == http.MethodPost || r.Method == http.MethodPatch {
			if err := parseForm(r); err != nil {
				http.Error(w, "malformed form", http.StatusBadRequest)
				return
			}
			sent := r.PostFormValue(CSRFField)
			if sent == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
				http.Error(w, "invalid csrf token", http.StatusForbidden)
				return
			}
		}

		ctx := context.WithValue(r.Context(), csrfKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCSRFToken returns the token for embedding in forms.
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey).(string)
	return token
}

func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return r.ParseMultipartForm(16 << 20)
	}
	return r.ParseForm()
}
