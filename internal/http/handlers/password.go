package handlers

import (
	"net/http"
	"strings"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/middleware"
)

// ShowRestorePassword picks the reset step from the URL: a token query
// parameter means "set the new password", its absence means "request the
// reset email".
func (h *Handler) ShowRestorePassword(w http.ResponseWriter, r *http.Request) {
	data := h.viewData(r, "Restablecer contraseña")
	data.Data["Token"] = r.URL.Query().Get("token")
	h.renderer.Render(w, http.StatusOK, "restore_password", data)
}

// HandleRestorePassword serves both steps of the reset flow; both converge
// on a terminal confirmation.
func (h *Handler) HandleRestorePassword(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PostFormValue("token"))
	data := h.viewData(r, "Restablecer contraseña")
	data.Data["Token"] = token

	if token == "" {
		h.requestReset(w, r, data)
		return
	}
	h.performReset(w, r, data, token)
}

func (h *Handler) requestReset(w http.ResponseWriter, r *http.Request, data *ViewData) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	if email == "" {
		data.Error = "Ingresa tu email."
		h.renderer.Render(w, http.StatusBadRequest, "restore_password", data)
		return
	}

	if _, err := h.api.SolicitarRestablecerPassword(r.Context(), email); err != nil {
		reportUpstream(err)
		data.Error = "Error al enviar. Intenta de nuevo."
		h.renderer.Render(w, http.StatusBadRequest, "restore_password", data)
		return
	}

	data.Data["Done"] = true
	h.renderer.Render(w, http.StatusOK, "restore_password", data)
}

func (h *Handler) performReset(w http.ResponseWriter, r *http.Request, data *ViewData, token string) {
	nueva := r.PostFormValue("nueva_password")
	confirm := r.PostFormValue("nueva_password_confirm")

	if nueva != confirm {
		data.Error = "Las contraseñas no coinciden."
		h.renderer.Render(w, http.StatusBadRequest, "restore_password", data)
		return
	}

	if _, err := h.api.RestablecerPassword(r.Context(), token, nueva, confirm); err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "Token inválido o expirado.")
		h.renderer.Render(w, http.StatusBadRequest, "restore_password", data)
		return
	}

	data.Data["Done"] = true
	h.renderer.Render(w, http.StatusOK, "restore_password", data)
}

// ShowChangePassword renders the change-password form for the signed-in
// user.
func (h *Handler) ShowChangePassword(w http.ResponseWriter, r *http.Request) {
	data := h.viewData(r, "Cambiar contraseña")
	data.Success = popFlash(w, r)
	h.renderer.Render(w, http.StatusOK, "change_password", data)
}

// HandleChangePassword changes the password with the current one as proof.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	actual := r.PostFormValue("password_actual")
	nueva := r.PostFormValue("nueva_password")
	confirm := r.PostFormValue("nueva_password_confirm")

	data := h.viewData(r, "Cambiar contraseña")

	if nueva != confirm {
		data.Error = "Las contraseñas no coinciden."
		h.renderer.Render(w, http.StatusBadRequest, "change_password", data)
		return
	}

	sess := middleware.GetSession(r.Context())
	detail, err := h.api.CambiarPassword(r.Context(), sess.Access, actual, nueva, confirm)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "No se pudo cambiar la contraseña.")
		h.renderer.Render(w, http.StatusBadRequest, "change_password", data)
		return
	}

	if detail == "" {
		detail = "Contraseña actualizada."
	}
	setFlash(w, detail)
	http.Redirect(w, r, "/cambiar-password", http.StatusSeeOther)
}
