package handlers

import (
	"net/http"
	"strings"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/middleware"
)

// ShowProfile renders the profile form. A failed profile fetch renders the
// error inline instead of leaving the form blank.
func (h *Handler) ShowProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	data := h.viewData(r, "Perfil")
	data.Success = popFlash(w, r)

	perfil, err := h.api.GetPerfil(r.Context(), sess.Access)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "No se pudo cargar el perfil.")
		h.renderer.Render(w, http.StatusOK, "profile", data)
		return
	}

	data.Data["Perfil"] = perfil
	h.renderer.Render(w, http.StatusOK, "profile", data)
}

// HandleProfileUpdate patches the contact fields, then re-fetches the user
// so the cached nested profile stays current.
func (h *Handler) HandleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	upd := api.PerfilUpdate{
		Nombre:              strings.TrimSpace(r.PostFormValue("nombre")),
		Apellido:            strings.TrimSpace(r.PostFormValue("apellido")),
		Telefono:            strings.TrimSpace(r.PostFormValue("telefono")),
		TelefonoAlternativo: strings.TrimSpace(r.PostFormValue("telefono_alternativo")),
	}

	_, err := h.api.ActualizarPerfil(r.Context(), sess.Access, upd)
	if err != nil {
		reportUpstream(err)
		data := h.viewData(r, "Perfil")
		data.Error = api.ErrorMessage(err, "No se pudo guardar el perfil.")
		data.Data["Perfil"] = nil
		h.renderer.Render(w, http.StatusBadRequest, "profile", data)
		return
	}

	if err := h.sessions.RefreshUser(r.Context(), sess); err != nil {
		reportUpstream(err)
	}

	setFlash(w, "Perfil actualizado.")
	http.Redirect(w, r, "/perfil", http.StatusSeeOther)
}

// HandleAvatarUpload forwards the uploaded file to the API as a multipart
// form, the one non-JSON operation.
func (h *Handler) HandleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	file, header, err := r.FormFile("avatar")
	if err != nil {
		data := h.viewData(r, "Perfil")
		data.Error = "Selecciona una imagen."
		h.renderer.Render(w, http.StatusBadRequest, "profile", data)
		return
	}
	defer file.Close()

	if _, err := h.api.SubirAvatar(r.Context(), sess.Access, header.Filename, file); err != nil {
		reportUpstream(err)
		data := h.viewData(r, "Perfil")
		data.Error = api.ErrorMessage(err, "Error al subir avatar.")
		h.renderer.Render(w, http.StatusBadRequest, "profile", data)
		return
	}

	if err := h.sessions.RefreshUser(r.Context(), sess); err != nil {
		reportUpstream(err)
	}

	setFlash(w, "Avatar actualizado.")
	http.Redirect(w, r, "/perfil", http.StatusSeeOther)
}

// ShowDashboard renders the landing page for signed-in users.
func (h *Handler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	data := h.viewData(r, "Panel")
	data.Success = popFlash(w, r)
	h.renderer.Render(w, http.StatusOK, "dashboard", data)
}
