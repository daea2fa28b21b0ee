package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safelease/accounts-web/internal/session"
)

func TestAnonymousIsRedirectedFromPrivateRoutes(t *testing.T) {
	f := newFrontend(t)

	for _, path := range []string{"/dashboard", "/perfil", "/cambiar-password", "/sesiones", "/2fa"} {
		resp, _ := f.get(t, path)
		assertRedirect(t, resp, "/ingresar")
	}
}

func TestAnonymousCanReachPublicRoutes(t *testing.T) {
	f := newFrontend(t)

	resp, body := f.get(t, "/ingresar")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h1>Ingresar</h1>")

	resp, body = f.get(t, "/registro")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h1>Crear cuenta</h1>")

	resp, body = f.get(t, "/restablecer-password")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Olvidé mi contraseña")
}

func TestAuthenticatedIsRedirectedFromPublicOnlyRoutes(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	for _, path := range []string{"/ingresar", "/registro"} {
		resp, _ := f.get(t, path)
		assertRedirect(t, resp, "/dashboard")
	}
}

func TestAuthenticatedCanReachPrivateRoutes(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, TestEmail)
}

func TestUnknownPathRedirectsToDashboard(t *testing.T) {
	f := newFrontend(t)

	resp, _ := f.get(t, "/no-existe")
	assertRedirect(t, resp, "/dashboard")
}

func TestLogoutClearsBothSlots(t *testing.T) {
	f := newFrontend(t)
	f.login(t)
	require.NotEmpty(t, f.cookie(t, session.AccessCookie))
	require.NotEmpty(t, f.cookie(t, session.RefreshCookie))

	resp, _ := f.postForm(t, "/salir", url.Values{})
	assertRedirect(t, resp, "/ingresar")

	assert.Empty(t, f.cookie(t, session.AccessCookie))
	assert.Empty(t, f.cookie(t, session.RefreshCookie))

	resp, _ = f.get(t, "/dashboard")
	assertRedirect(t, resp, "/ingresar")
}

func TestLogoutIsIdempotentWhenAnonymous(t *testing.T) {
	f := newFrontend(t)

	resp, _ := f.postForm(t, "/salir", url.Values{})
	assertRedirect(t, resp, "/ingresar")
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	f := newFrontend(t)
	f.get(t, "/ingresar")

	resp, err := f.client.PostForm(f.Server.URL+"/ingresar", url.Values{
		"email":    {TestEmail},
		"password": {TestPassword},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, f.API.Hits("/auth/login/"))
}
