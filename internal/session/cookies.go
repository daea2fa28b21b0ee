package session

import (
	"net/http"
	"time"
)

// The two durable storage slots, persisted across page loads and cleared
// together on logout or unrecoverable refresh failure.
const (
	AccessCookie  = "safelease_access"
	RefreshCookie = "safelease_refresh"
)

const refreshMaxAge = 30 * 24 * time.Hour

// CookieStore reads and writes the token slots as HTTP-only cookies.
type CookieStore struct {
	Domain string
	Secure bool
}

// Read returns the stored token pair; missing cookies read as empty.
func (cs *CookieStore) Read(r *http.Request) (access, refresh string) {
	if c, err := r.Cookie(AccessCookie); err == nil {
		access = c.Value
	}
	if c, err := r.Cookie(RefreshCookie); err == nil {
		refresh = c.Value
	}
	return access, refresh
}

// Write persists the token pair. Both slots are always written together.
func (cs *CookieStore) Write(w http.ResponseWriter, access, refresh string) {
	if access == "" && refresh == "" {
		cs.Clear(w)
		return
	}
	http.SetCookie(w, cs.cookie(AccessCookie, access, int(refreshMaxAge.Seconds())))
	http.SetCookie(w, cs.cookie(RefreshCookie, refresh, int(refreshMaxAge.Seconds())))
}

// Clear removes both slots. Idempotent.
func (cs *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, cs.cookie(AccessCookie, "", -1))
	http.SetCookie(w, cs.cookie(RefreshCookie, "", -1))
}

func (cs *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cs.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cs.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
