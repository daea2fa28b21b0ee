package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/middleware"
)

// ShowLogin renders the login form.
func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	data := h.viewData(r, "Ingresar")
	data.Success = popFlash(w, r)
	data.Data["Email"] = ""
	h.renderer.Render(w, http.StatusOK, "login", data)
}

// HandleLogin submits credentials and, on success, installs the token pair
// and sends the user to the dashboard.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	data := h.viewData(r, "Ingresar")
	data.Data["Email"] = email

	if email == "" || password == "" {
		data.Error = "Ingresa tu email y contraseña."
		h.renderer.Render(w, http.StatusBadRequest, "login", data)
		return
	}

	if !h.loginLimiter.Allow(middleware.GetIPKey(r)) {
		data.Error = "Demasiados intentos. Espera unos minutos."
		h.renderer.Render(w, http.StatusTooManyRequests, "login", data)
		return
	}

	sess, err := h.sessions.Login(r.Context(), email, password)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "Credenciales incorrectas.")
		h.renderer.Render(w, http.StatusUnauthorized, "login", data)
		return
	}

	h.cookies.Write(w, sess.Access, sess.Refresh)
	log.Info().Int64("user_id", sess.User.ID).Msg("login")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout clears both token slots and returns to the login page.
// Idempotent: logging out while anonymous is a no-op redirect.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	http.Redirect(w, r, "/ingresar", http.StatusSeeOther)
}

// ShowRegister renders the registration form.
func (h *Handler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register", h.viewData(r, "Crear cuenta"))
}

// HandleRegister validates the form locally, then creates the account.
// Password mismatch and missing terms acceptance never reach the network.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req := api.RegistroRequest{
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
		Nombre:          strings.TrimSpace(r.PostFormValue("nombre")),
		Apellido:        strings.TrimSpace(r.PostFormValue("apellido")),
		Telefono:        strings.TrimSpace(r.PostFormValue("telefono")),
		AceptarTerminos: r.PostFormValue("aceptar_terminos") == "on",
	}

	data := h.viewData(r, "Crear cuenta")
	data.Data["Form"] = req

	if req.Password != req.PasswordConfirm {
		data.Error = "Las contraseñas no coinciden."
		h.renderer.Render(w, http.StatusBadRequest, "register", data)
		return
	}
	if !req.AceptarTerminos {
		data.Error = "Debes aceptar los términos y condiciones."
		h.renderer.Render(w, http.StatusBadRequest, "register", data)
		return
	}

	resp, err := h.api.Registro(r.Context(), req)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "Error al crear la cuenta.")
		h.renderer.Render(w, http.StatusBadRequest, "register", data)
		return
	}

	data.Success = resp.Detail
	if data.Success == "" {
		data.Success = "Cuenta creada. Revisa tu correo para verificarla."
	}
	data.Data["Registered"] = true
	h.renderer.Render(w, http.StatusOK, "register", data)
}
