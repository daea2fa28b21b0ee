package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/middleware"
)

// ShowSessions lists the device sessions of the signed-in user.
func (h *Handler) ShowSessions(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	data := h.viewData(r, "Sesiones")
	data.Success = popFlash(w, r)

	sesiones, err := h.api.GetSesiones(r.Context(), sess.Access)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "No se pudieron cargar las sesiones.")
		h.renderer.Render(w, http.StatusOK, "sessions", data)
		return
	}

	data.Data["Sesiones"] = sesiones
	h.renderer.Render(w, http.StatusOK, "sessions", data)
}

// HandleRevokeSession revokes one device session by id and re-renders the
// refreshed list.
func (h *Handler) HandleRevokeSession(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Redirect(w, r, "/sesiones", http.StatusSeeOther)
		return
	}

	if err := h.api.RevocarSesion(r.Context(), sess.Access, id); err != nil {
		reportUpstream(err)
		data := h.viewData(r, "Sesiones")
		data.Error = api.ErrorMessage(err, "No se pudo revocar la sesión.")
		h.renderer.Render(w, http.StatusBadRequest, "sessions", data)
		return
	}

	setFlash(w, "Sesión revocada.")
	http.Redirect(w, r, "/sesiones", http.StatusSeeOther)
}
