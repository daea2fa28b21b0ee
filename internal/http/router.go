package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/safelease/accounts-web/internal/http/handlers"
	"github.com/safelease/accounts-web/internal/middleware"
	"github.com/safelease/accounts-web/internal/session"
)

// NewRouter wires the account views with their guards. The session is
// restored before any guard runs, so redirect decisions always see a
// resolved session.
func NewRouter(h *handlers.Handler, manager *session.Manager, cookies *session.CookieStore) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", h.HandleHealth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionLoader(manager, cookies))
		r.Use(middleware.CSRF)

		// Public-only views: signed-in users go to the dashboard.
		r.Group(func(r chi.Router) {
			r.Use(middleware.PublicOnly)
			r.Get("/ingresar", h.ShowLogin)
			r.Post("/ingresar", h.HandleLogin)
			r.Get("/registro", h.ShowRegister)
			r.Post("/registro", h.HandleRegister)
		})

		// Open views: reachable regardless of session state.
		r.Get("/verificar-email", h.HandleVerifyEmail)
		r.Get("/verificar-otp", h.ShowVerifyOTP)
		r.Post("/verificar-otp", h.HandleVerifyOTP)
		r.Get("/restablecer-password", h.ShowRestorePassword)
		r.Post("/restablecer-password", h.HandleRestorePassword)

		// Logout is idempotent and works from any state.
		r.Post("/salir", h.HandleLogout)

		// Private views.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/dashboard", h.ShowDashboard)
			r.Get("/perfil", h.ShowProfile)
			r.Post("/perfil", h.HandleProfileUpdate)
			r.Post("/perfil/avatar", h.HandleAvatarUpload)
			r.Get("/cambiar-password", h.ShowChangePassword)
			r.Post("/cambiar-password", h.HandleChangePassword)
			r.Get("/sesiones", h.ShowSessions)
			r.Post("/sesiones/{id}/revocar", h.HandleRevokeSession)
			r.Get("/2fa", h.ShowTwoFA)
			r.Get("/2fa/qr.png", h.HandleTwoFAQR)
			r.Post("/2fa/setup", h.HandleTwoFASetup)
			r.Post("/2fa/continuar", h.HandleTwoFAContinue)
			r.Post("/2fa/activar", h.HandleTwoFAActivate)
			r.Post("/2fa/desactivar", h.HandleTwoFADeactivate)
		})

	})

	// Unknown paths land on the dashboard, which itself bounces anonymous
	// visitors to the login page.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/dashboard", http.StatusFound)
	})

	return r
}
