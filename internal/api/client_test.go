package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSendsCredentialsAndDecodesTokens(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"acc","refresh":"ref","user_id":7,"email":"ana@example.com","rol":"cliente"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	tokens, err := client.Login(context.Background(), "ana@example.com", "secreta123")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", gotBody["email"])
	assert.Equal(t, "secreta123", gotBody["password"])
	assert.Equal(t, "acc", tokens.Access)
	assert.Equal(t, "ref", tokens.Refresh)
	assert.Equal(t, int64(7), tokens.UserID)
}

func TestMeAttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer acc-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":7,"email":"ana@example.com","verified_email":true}`))
	}))
	defer srv.Close()

	user, err := NewClient(srv.URL).Me(context.Background(), "acc-123")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.True(t, user.VerifiedEmail)
}

func TestNon2xxBecomesAPIErrorWithDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Credenciales inválidas."}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Login(context.Background(), "x@example.com", "bad")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Credenciales inválidas.", apiErr.Detail)
	assert.True(t, IsAuthError(err))
}

func TestFieldErrorsAreExtracted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"email":["Ya existe una cuenta con este email."]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Registro(context.Background(), RegistroRequest{
		Email: "ana@example.com", Password: "x", PasswordConfirm: "x", AceptarTerminos: true,
	})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, IsAuthError(err))
	assert.Equal(t, "Ya existe una cuenta con este email.", apiErr.Message("fallback"))
}

func TestErrorMessageFallsBackForTransportFailures(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")
	_, err := client.Me(context.Background(), "acc")
	require.Error(t, err)
	assert.Equal(t, "fallback", ErrorMessage(err, "fallback"))
}

func TestSubirAvatarSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/perfil/avatar/", r.URL.Path)
		assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("avatar")
		require.NoError(t, err)
		defer file.Close()
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "foto.png", header.Filename)
		assert.Equal(t, "imagen", string(content))

		_, _ = w.Write([]byte(`{"id":1,"nombre":"Ana","avatar":"/media/foto.png"}`))
	}))
	defer srv.Close()

	perfil, err := NewClient(srv.URL).SubirAvatar(context.Background(), "acc", "foto.png", strings.NewReader("imagen"))
	require.NoError(t, err)
	assert.Equal(t, "/media/foto.png", perfil.Avatar)
}

func TestRevocarSesionBuildsPathFromID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).RevocarSesion(context.Background(), "acc", 42))
	assert.Equal(t, "/auth/sesiones/42/revocar/", gotPath)
}

func TestGet2FAEstado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/2fa/estado/", r.URL.Path)
		_, _ = w.Write([]byte(`{"tiene_2fa":true}`))
	}))
	defer srv.Close()

	enabled, err := NewClient(srv.URL).Get2FAEstado(context.Background(), "acc")
	require.NoError(t, err)
	assert.True(t, enabled)
}
