package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoFAStatusStartsDisabled(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.get(t, "/2fa")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Inactivo")
}

func TestTwoFASetupOpensStepOne(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.postForm(t, "/2fa/setup", url.Values{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Activar 2FA - paso 1")
	assert.Contains(t, body, TestSecret)
	assert.Contains(t, body, "/2fa/qr.png?uri=")
}

func TestTwoFAContinueAdvancesToStepTwo(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.postForm(t, "/2fa/continuar", url.Values{"secret": {TestSecret}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Activar 2FA - paso 2")
	assert.Contains(t, body, `value="`+TestSecret+`"`, "secret must carry into the activation form")
}

func TestTwoFAActivateWrongCodeStaysOnStepTwo(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.postForm(t, "/2fa/activar", url.Values{
		"secret": {TestSecret},
		"codigo": {"999999"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Activar 2FA - paso 2")
	assert.False(t, f.API.TwoFAEnabled(), "a rejected code must never enable 2FA")
}

func TestTwoFAActivateShortCodeIsLocal(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.postForm(t, "/2fa/activar", url.Values{
		"secret": {TestSecret},
		"codigo": {"123"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Ingresa el código de 6 dígitos.")
	assert.Zero(t, f.API.Hits("/auth/2fa/activar/"))
}

func TestTwoFAActivateShowsBackupCodesExactlyOnce(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.postForm(t, "/2fa/activar", url.Values{
		"secret": {TestSecret},
		"codigo": {TestTOTPCode},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "AAAA-1111")
	assert.Contains(t, body, "Activo")
	assert.True(t, f.API.TwoFAEnabled())

	// The codes live only in the activation response; a reload of the
	// status page must not show them again.
	_, body = f.get(t, "/2fa")
	assert.NotContains(t, body, "AAAA-1111")
	assert.Contains(t, body, "Activo")
}

func TestTwoFADeactivate(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	_, _ = f.postForm(t, "/2fa/activar", url.Values{
		"secret": {TestSecret},
		"codigo": {TestTOTPCode},
	})
	require.True(t, f.API.TwoFAEnabled())

	resp, _ := f.postForm(t, "/2fa/desactivar", url.Values{"codigo": {TestTOTPCode}})
	assertRedirect(t, resp, "/2fa")
	assert.False(t, f.API.TwoFAEnabled())

	_, body := f.get(t, "/2fa")
	assert.Contains(t, body, "2FA desactivado.")
	assert.Contains(t, body, "Inactivo")
}

func TestTwoFAQRServesPNG(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	uri := "otpauth://totp/SafeLease:" + TestEmail + "?secret=" + TestSecret
	resp, body := f.get(t, "/2fa/qr.png?uri="+url.QueryEscape(uri))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "\x89PNG", body[:4])
}

func TestTwoFAQRRejectsNonProvisioningURIs(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, _ := f.get(t, "/2fa/qr.png?uri="+url.QueryEscape("https://example.com/x"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
