package tests

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safelease/accounts-web/internal/middleware"
)

func TestProfileShowsCurrentData(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.get(t, "/perfil")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ana")
	assert.Contains(t, body, "García")
}

func TestProfileUpdateRoundTrip(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, _ := f.postForm(t, "/perfil", url.Values{
		"nombre":               {"Ana María"},
		"apellido":             {"García"},
		"telefono":             {"+3466600009"},
		"telefono_alternativo": {""},
	})
	assertRedirect(t, resp, "/perfil")

	_, body := f.get(t, "/perfil")
	assert.Contains(t, body, "Perfil actualizado.")
	assert.Contains(t, body, "Ana María")
	assert.Contains(t, body, "+3466600009")
}

func TestAvatarUploadStreamsTheFile(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField(middleware.CSRFField, f.csrfToken(t)))
	part, err := mw.CreateFormFile("avatar", "foto.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("imagen"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := f.client.Post(f.Server.URL+"/perfil/avatar", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	assertRedirect(t, resp, "/perfil")
	assert.Equal(t, 1, f.API.Hits("/auth/perfil/avatar/"))
}

func TestSessionsListShowsDevices(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, body := f.get(t, "/sesiones")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "dev-a")
	assert.Contains(t, body, "dev-b")
}

func TestRevokeSessionRemovesExactlyOne(t *testing.T) {
	f := newFrontend(t)
	f.login(t)

	resp, _ := f.postForm(t, "/sesiones/11/revocar", url.Values{})
	assertRedirect(t, resp, "/sesiones")

	_, body := f.get(t, "/sesiones")
	assert.Contains(t, body, "Sesión revocada.")
	assert.NotContains(t, body, "dev-a")
	assert.Contains(t, body, "dev-b")
	assert.Equal(t, 1, f.API.Hits("/auth/sesiones/{id}/revocar/"))
}
