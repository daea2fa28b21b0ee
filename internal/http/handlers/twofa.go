package handlers

import (
	"net/http"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/safelease/accounts-web/internal/api"
	"github.com/safelease/accounts-web/internal/middleware"
)

// ShowTwoFA renders the two-factor status page. A failed status fetch
// renders the error inline instead of silently showing "disabled".
func (h *Handler) ShowTwoFA(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	data := h.viewData(r, "Autenticación en dos pasos")
	data.Success = popFlash(w, r)

	enabled, err := h.api.Get2FAEstado(r.Context(), sess.Access)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "No se pudo consultar el estado de 2FA.")
		h.renderer.Render(w, http.StatusOK, "twofa", data)
		return
	}

	data.Data["Enabled"] = enabled
	h.renderer.Render(w, http.StatusOK, "twofa", data)
}

// HandleTwoFASetup fetches a fresh setup payload and opens step 1 of the
// activation flow: QR code plus shared secret. The secret only travels in
// the rendered form; nothing is stored server-side.
func (h *Handler) HandleTwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	data := h.viewData(r, "Activar 2FA")

	setup, err := h.api.Get2FASetup(r.Context(), sess.Access)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "No se pudo iniciar la activación.")
		h.renderer.Render(w, http.StatusBadRequest, "twofa", data)
		return
	}

	data.Data["Step"] = 1
	data.Data["Secret"] = setup.Secret
	data.Data["ProvisioningURI"] = setup.ProvisioningURI
	data.Data["QRURL"] = "/2fa/qr.png?uri=" + url.QueryEscape(setup.ProvisioningURI)
	h.renderer.Render(w, http.StatusOK, "twofa", data)
}

// HandleTwoFAContinue advances from the QR step to the code-entry step.
func (h *Handler) HandleTwoFAContinue(w http.ResponseWriter, r *http.Request) {
	secret := r.PostFormValue("secret")
	if secret == "" {
		http.Redirect(w, r, "/2fa", http.StatusSeeOther)
		return
	}

	data := h.viewData(r, "Activar 2FA")
	data.Data["Step"] = 2
	data.Data["Secret"] = secret
	h.renderer.Render(w, http.StatusOK, "twofa", data)
}

// HandleTwoFAActivate submits the setup secret with a 6-digit code. A bad
// code re-renders the code-entry step with an error and never enables 2FA.
// On success the one-time backup codes are rendered exactly once.
func (h *Handler) HandleTwoFAActivate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	secret := r.PostFormValue("secret")
	codigo := digitsOnly(r.PostFormValue("codigo"))

	if secret == "" {
		http.Redirect(w, r, "/2fa", http.StatusSeeOther)
		return
	}

	data := h.viewData(r, "Activar 2FA")
	data.Data["Step"] = 2
	data.Data["Secret"] = secret

	if len(codigo) != 6 {
		data.Error = "Ingresa el código de 6 dígitos."
		h.renderer.Render(w, http.StatusBadRequest, "twofa", data)
		return
	}

	resp, err := h.api.Activar2FA(r.Context(), sess.Access, secret, codigo)
	if err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "Código inválido.")
		h.renderer.Render(w, http.StatusBadRequest, "twofa", data)
		return
	}

	// Terminal screen of the activation flow. The backup codes exist only
	// in this response body; they are not retrievable again.
	done := h.viewData(r, "Autenticación en dos pasos")
	done.Success = "2FA activado. Guarda los códigos de respaldo."
	done.Data["Enabled"] = true
	done.Data["BackupCodes"] = resp.BackupCodes
	h.renderer.Render(w, http.StatusOK, "twofa", done)
}

// HandleTwoFADeactivate disables 2FA with a TOTP or backup code.
func (h *Handler) HandleTwoFADeactivate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	codigo := strings.TrimSpace(r.PostFormValue("codigo"))

	data := h.viewData(r, "Autenticación en dos pasos")
	data.Data["Enabled"] = true

	if codigo == "" {
		data.Error = "Ingresa tu código actual."
		h.renderer.Render(w, http.StatusBadRequest, "twofa", data)
		return
	}

	if _, err := h.api.Desactivar2FA(r.Context(), sess.Access, codigo); err != nil {
		reportUpstream(err)
		data.Error = api.ErrorMessage(err, "Código inválido.")
		h.renderer.Render(w, http.StatusBadRequest, "twofa", data)
		return
	}

	setFlash(w, "2FA desactivado.")
	http.Redirect(w, r, "/2fa", http.StatusSeeOther)
}

// HandleTwoFAQR renders the provisioning URI as a QR code PNG for
// authenticator apps.
func (h *Handler) HandleTwoFAQR(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if !strings.HasPrefix(uri, "otpauth://") {
		http.Error(w, "invalid provisioning uri", http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(uri, qrcode.Medium, 220)
	if err != nil {
		http.Error(w, "qr encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
