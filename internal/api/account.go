package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/safelease/accounts-web/internal/model"
)

// GetPerfil fetches the profile of the authenticated user.
func (c *Client) GetPerfil(ctx context.Context, accessToken string) (*model.Perfil, error) {
	var out model.Perfil
	if err := c.do(ctx, http.MethodGet, "/auth/perfil/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PerfilUpdate carries the mutable contact fields for a profile update.
type PerfilUpdate struct {
	Nombre              string `json:"nombre"`
	Apellido            string `json:"apellido"`
	Telefono            string `json:"telefono"`
	TelefonoAlternativo string `json:"telefono_alternativo"`
}

// ActualizarPerfil patches the profile and returns the updated record.
func (c *Client) ActualizarPerfil(ctx context.Context, accessToken string, upd PerfilUpdate) (*model.Perfil, error) {
	var out model.Perfil
	if err := c.do(ctx, http.MethodPatch, "/auth/perfil/actualizar/", accessToken, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubirAvatar uploads an avatar image as a multipart form. This is the only
// non-JSON request in the API; the file is streamed through a pipe rather
// than buffered in memory.
func (c *Client) SubirAvatar(ctx context.Context, accessToken, filename string, file io.Reader) (*model.Perfil, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("avatar", filename)
		if err != nil {
			_ = pw.CloseWithError(fmt.Errorf("create avatar part: %w", err))
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			_ = pw.CloseWithError(fmt.Errorf("copy avatar: %w", err))
			return
		}
		if err := writer.Close(); err != nil {
			_ = pw.CloseWithError(fmt.Errorf("close multipart writer: %w", err))
			return
		}
		_ = pw.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/perfil/avatar/", pr)
	if err != nil {
		return nil, fmt.Errorf("build avatar request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("avatar upload failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("read avatar response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, raw)
	}

	var out model.Perfil
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode avatar response: %w", err)
	}
	return &out, nil
}

// GetSesiones lists the device sessions of the authenticated user.
func (c *Client) GetSesiones(ctx context.Context, accessToken string) ([]model.Sesion, error) {
	var out []model.Sesion
	if err := c.do(ctx, http.MethodGet, "/auth/sesiones/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RevocarSesion revokes a single device session by id.
func (c *Client) RevocarSesion(ctx context.Context, accessToken string, id int64) error {
	path := fmt.Sprintf("/auth/sesiones/%d/revocar/", id)
	return c.do(ctx, http.MethodPost, path, accessToken, map[string]string{}, nil)
}

// Get2FAEstado reports whether two-factor authentication is enabled.
func (c *Client) Get2FAEstado(ctx context.Context, accessToken string) (bool, error) {
	var out struct {
		Tiene2FA bool `json:"tiene_2fa"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/2fa/estado/", accessToken, nil, &out); err != nil {
		return false, err
	}
	return out.Tiene2FA, nil
}

// Get2FASetup fetches a fresh shared secret and provisioning URI. The
// payload is only valid until activation.
func (c *Client) Get2FASetup(ctx context.Context, accessToken string) (*model.TwoFASetup, error) {
	var out model.TwoFASetup
	if err := c.do(ctx, http.MethodGet, "/auth/2fa/setup/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activar2FAResponse is the response for POST /auth/2fa/activar/. The
// backup codes are produced exactly once here.
type Activar2FAResponse struct {
	Detail      string   `json:"detail"`
	BackupCodes []string `json:"backup_codes"`
}

// Activar2FA enables two-factor authentication with the setup secret and a
// code from the authenticator app.
func (c *Client) Activar2FA(ctx context.Context, accessToken, secret, codigo string) (*Activar2FAResponse, error) {
	body := map[string]string{"secret": secret, "codigo": codigo}
	var out Activar2FAResponse
	if err := c.do(ctx, http.MethodPost, "/auth/2fa/activar/", accessToken, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Desactivar2FA disables two-factor authentication. The code may be a TOTP
// or a backup code.
func (c *Client) Desactivar2FA(ctx context.Context, accessToken, codigo string) (string, error) {
	body := map[string]string{"codigo": codigo}
	var out struct {
		Detail string `json:"detail"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/2fa/desactivar/", accessToken, body, &out); err != nil {
		return "", err
	}
	return out.Detail, nil
}
