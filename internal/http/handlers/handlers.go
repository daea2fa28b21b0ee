package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/middleware"
	"github.com/safelease/accounts-web/internal/observability"
	"github.com/safelease/accounts-web/internal/session"
)

// Handler serves the account views. Every view owns its form state and
// calls the API client directly; failures render as inline messages on the
// triggering form.
type Handler struct {
	api      *api.Client
	sessions *session.Manager
	cookies  *session.CookieStore
	renderer *Renderer

	loginLimiter *middleware.RateLimiter
	otpLimiter   *middleware.RateLimiter
}

// New creates the view handler.
func New(apiClient *api.Client, sessions *session.Manager, cookies *session.CookieStore) *Handler {
	return &Handler{
		api:          apiClient,
		sessions:     sessions,
		cookies:      cookies,
		renderer:     NewRenderer(),
		loginLimiter: middleware.NewRateLimiter(10*time.Minute, 10),
		otpLimiter:   middleware.NewRateLimiter(10*time.Minute, 20),
	}
}

// viewData assembles the common template payload for the request.
func (h *Handler) viewData(r *http.Request, title string) *ViewData {
	sess := middleware.GetSession(r.Context())
	data := &ViewData{
		Title:     title,
		CSRFToken: middleware.GetCSRFToken(r.Context()),
		Data:      map[string]any{},
	}
	if sess != nil {
		data.User = sess.User
	}
	return data
}

// reportUpstream forwards unexpected upstream failures to error reporting.
// Auth errors and validation responses are normal flow and stay local.
func reportUpstream(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		return
	}
	observability.CaptureError(err)
}

// HandleHealth answers the liveness probe.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
