package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/middleware"
)

// HandleVerifyEmail consumes the one-time token from the emailed link
// (query param "cr") and, on success, links to the OTP step with the user
// id the next screen requires.
func (h *Handler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	data := h.viewData(r, "Verificar correo")

	token := r.URL.Query().Get("cr")
	if token == "" {
		data.Error = "Falta el token de verificación."
		h.renderer.Render(w, http.StatusBadRequest, "verify_email", data)
		return
	}

	resp, err := h.api.VerificarEmail(r.Context(), token)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "Token inválido o expirado.")
		h.renderer.Render(w, http.StatusBadRequest, "verify_email", data)
		return
	}

	data.Success = resp.Detail
	data.Data["UsuarioID"] = resp.UsuarioID
	h.renderer.Render(w, http.StatusOK, "verify_email", data)
}

// ShowVerifyOTP renders the 6-digit code form. The user id arrives via the
// URL from the email verification step.
func (h *Handler) ShowVerifyOTP(w http.ResponseWriter, r *http.Request) {
	data := h.viewData(r, "Código de verificación")

	usuarioID, ok := parseUsuarioID(r)
	if !ok {
		data.Error = "Falta el identificador de usuario. Completa la verificación desde el enlace del correo."
		h.renderer.Render(w, http.StatusBadRequest, "verify_otp", data)
		return
	}
	data.Data["UsuarioID"] = usuarioID
	h.renderer.Render(w, http.StatusOK, "verify_otp", data)
}

// HandleVerifyOTP completes login with the code. Length is checked locally
// before any network call; a valid code installs the token pair.
func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	data := h.viewData(r, "Código de verificación")

	usuarioID, ok := parseUsuarioID(r)
	if !ok {
		data.Error = "Falta el identificador de usuario. Completa la verificación desde el enlace del correo."
		h.renderer.Render(w, http.StatusBadRequest, "verify_otp", data)
		return
	}
	data.Data["UsuarioID"] = usuarioID

	codigo := digitsOnly(r.PostFormValue("codigo"))
	if len(codigo) != 6 {
		data.Error = "Ingresa el código de 6 dígitos."
		h.renderer.Render(w, http.StatusBadRequest, "verify_otp", data)
		return
	}

	if !h.otpLimiter.Allow(middleware.GetIPKey(r)) {
		data.Error = "Demasiados intentos. Espera unos minutos."
		h.renderer.Render(w, http.StatusTooManyRequests, "verify_otp", data)
		return
	}

	tokens, err := h.api.VerificarOTP(r.Context(), usuarioID, codigo)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "Código inválido o expirado.")
		h.renderer.Render(w, http.StatusUnauthorized, "verify_otp", data)
		return
	}

	sess := h.sessions.SetTokens(r.Context(), tokens)
	h.cookies.Write(w, sess.Access, sess.Refresh)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// parseUsuarioID reads usuario_id from the query string, falling back to
// the posted form so the value survives a failed submission.
func parseUsuarioID(r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("usuario_id")
	if raw == "" {
		raw = r.PostFormValue("usuario_id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// digitsOnly strips everything but digits, matching the original input
// normalization.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
