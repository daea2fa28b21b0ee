package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safelease/accounts-web/internal/session"
)

func TestLoginStoresTokensInBothSlots(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	assert.Equal(t, TestAccess, f.cookie(t, session.AccessCookie))
	assert.Equal(t, TestRefresh, f.cookie(t, session.RefreshCookie))
}

func TestLoginWithBadCredentialsStaysOnForm(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/ingresar", url.Values{
		"email":    {TestEmail},
		"password": {"equivocada"},
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Credenciales inválidas.")
	assert.Contains(t, body, TestEmail, "email must be preserved for correction")
	assert.Empty(t, f.cookie(t, session.AccessCookie))
}

func TestRegisterPasswordMismatchFailsWithoutNetworkCall(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/registro", url.Values{
		"email":            {"nueva@example.com"},
		"password":         {"secreta123"},
		"password_confirm": {"distinta456"},
		"nombre":           {"Nueva"},
		"apellido":         {"Cuenta"},
		"aceptar_terminos": {"on"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Las contraseñas no coinciden.")
	assert.Zero(t, f.API.Hits("/auth/registro/"), "mismatch must be caught before the backend is called")
}

func TestRegisterRequiresAcceptedTerms(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/registro", url.Values{
		"email":            {"nueva@example.com"},
		"password":         {"secreta123"},
		"password_confirm": {"secreta123"},
		"nombre":           {"Nueva"},
		"apellido":         {"Cuenta"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Debes aceptar los términos y condiciones.")
	assert.Zero(t, f.API.Hits("/auth/registro/"))
}

func TestRegisterSuccessShowsConfirmation(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/registro", url.Values{
		"email":            {"nueva@example.com"},
		"password":         {"secreta123"},
		"password_confirm": {"secreta123"},
		"nombre":           {"Nueva"},
		"apellido":         {"Cuenta"},
		"aceptar_terminos": {"on"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Cuenta creada. Revisa tu correo para verificarla.")
	assert.Empty(t, f.cookie(t, session.AccessCookie), "registration must not sign the browser in")
}

func TestRegisterSurfacesBackendFieldErrors(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/registro", url.Values{
		"email":            {"existe@example.com"},
		"password":         {"secreta123"},
		"password_confirm": {"secreta123"},
		"nombre":           {"Otra"},
		"apellido":         {"Cuenta"},
		"aceptar_terminos": {"on"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Ya existe una cuenta con este email.")
}

func TestVerifyEmailLinksToOTPStep(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.get(t, "/verificar-email?cr="+TestEmailToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Correo verificado")
	assert.Contains(t, body, "/verificar-otp?usuario_id=7")
}

func TestVerifyEmailWithoutTokenFails(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.get(t, "/verificar-email")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "<h2>Error</h2>")
	assert.Zero(t, f.API.Hits("/auth/verificar-email/"))
}

func TestVerifyOTPSignsTheBrowserIn(t *testing.T) {
	f := newFrontend(t)

	resp, _ := f.postForm(t, "/verificar-otp", url.Values{
		"usuario_id": {"7"},
		"codigo":     {TestOTPCode},
	})
	assertRedirect(t, resp, "/dashboard")
	assert.Equal(t, TestAccess, f.cookie(t, session.AccessCookie))
	assert.Equal(t, TestRefresh, f.cookie(t, session.RefreshCookie))

	resp, body := f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, TestEmail)
}

func TestVerifyOTPRejectsShortCodeLocally(t *testing.T) {
	f := newFrontend(t)

	resp, _ := f.postForm(t, "/verificar-otp", url.Values{
		"usuario_id": {"7"},
		"codigo":     {"123"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, f.API.Hits("/auth/verificar-otp/"))
}

func TestVerifyOTPWrongCodeStaysAnonymous(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/verificar-otp", url.Values{
		"usuario_id": {"7"},
		"codigo":     {"000000"},
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Código inválido o expirado.")
	assert.Empty(t, f.cookie(t, session.AccessCookie))
}

func TestRestorePasswordShowsRequestStepWithoutToken(t *testing.T) {
	f := newFrontend(t)

	_, body := f.get(t, "/restablecer-password")
	assert.Contains(t, body, "Olvidé mi contraseña")
	assert.NotContains(t, body, "Nueva contraseña")
}

func TestRestorePasswordShowsResetStepWithToken(t *testing.T) {
	f := newFrontend(t)

	_, body := f.get(t, "/restablecer-password?token="+TestResetToken)
	assert.Contains(t, body, "Nueva contraseña")
	assert.NotContains(t, body, "Olvidé mi contraseña")
}

func TestRestorePasswordRequestAlwaysConfirms(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/restablecer-password", url.Values{
		"email": {"cualquiera@example.com"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Si el correo existe")
}

func TestRestorePasswordResetMismatchIsLocal(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/restablecer-password", url.Values{
		"token":                  {TestResetToken},
		"nueva_password":         {"secreta123"},
		"nueva_password_confirm": {"distinta456"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Las contraseñas no coinciden.")
	assert.Zero(t, f.API.Hits("/auth/restablecer-password/"))
}

func TestRestorePasswordResetCompletes(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.postForm(t, "/restablecer-password", url.Values{
		"token":                  {TestResetToken},
		"nueva_password":         {"renovada123"},
		"nueva_password_confirm": {"renovada123"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h2>Listo</h2>")
}

func TestChangePasswordFlow(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.postForm(t, "/cambiar-password", url.Values{
		"password_actual":        {"equivocada"},
		"nueva_password":         {"renovada123"},
		"nueva_password_confirm": {"renovada123"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "La contraseña actual no es correcta.")

	resp, _ = f.postForm(t, "/cambiar-password", url.Values{
		"password_actual":        {TestPassword},
		"nueva_password":         {"renovada123"},
		"nueva_password_confirm": {"renovada123"},
	})
	assertRedirect(t, resp, "/cambiar-password")

	_, body = f.get(t, "/cambiar-password")
	assert.Contains(t, body, "Contraseña actualizada.")

	_, body = f.get(t, "/cambiar-password")
	assert.NotContains(t, body, "Contraseña actualizada.", "flash must show only once")
}

func TestExpiredAccessIsRefreshedOnce(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	f.API.InvalidateAccess(TestAccess)

	resp, body := f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, TestEmail)
	assert.Equal(t, 1, f.API.Hits("/auth/token/refresh/"))
	assert.Equal(t, "acc-2", f.cookie(t, session.AccessCookie), "refreshed access must be written back")
}
