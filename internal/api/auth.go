package api

import (
	"context"
	"net/http"

	"github.com/safelease/accounts-web/internal/model"
)

// RegistroRequest is the request body for POST /auth/registro/.
type RegistroRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Nombre          string `json:"nombre,omitempty"`
	Apellido        string `json:"apellido,omitempty"`
	Telefono        string `json:"telefono,omitempty"`
	AceptarTerminos bool   `json:"aceptar_terminos"`
}

// RegistroResponse is the response for POST /auth/registro/.
type RegistroResponse struct {
	Detail string `json:"detail"`
	Email  string `json:"email"`
}

// Registro creates a new account. The backend sends a verification email.
func (c *Client) Registro(ctx context.Context, req RegistroRequest) (*RegistroResponse, error) {
	var out RegistroResponse
	if err := c.do(ctx, http.MethodPost, "/auth/registro/", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Tokens, error) {
	body := map[string]string{"email": email, "password": password}
	var out model.Tokens
	if err := c.do(ctx, http.MethodPost, "/auth/login/", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerificarEmailResponse is the response for POST /auth/verificar-email/.
type VerificarEmailResponse struct {
	Detail    string `json:"detail"`
	UsuarioID int64  `json:"usuario_id"`
	Email     string `json:"email"`
}

// VerificarEmail consumes a one-time email verification token and yields
// the user id needed by the OTP step.
func (c *Client) VerificarEmail(ctx context.Context, token string) (*VerificarEmailResponse, error) {
	body := map[string]string{"token": token}
	var out VerificarEmailResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verificar-email/", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerificarOTP completes login with the 6-digit code delivered after email
// verification, returning a token pair.
func (c *Client) VerificarOTP(ctx context.Context, usuarioID int64, codigo string) (*model.Tokens, error) {
	body := map[string]any{"usuario_id": usuarioID, "codigo": codigo}
	var out model.Tokens
	if err := c.do(ctx, http.MethodPost, "/auth/verificar-otp/", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges the refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refresh string) (string, error) {
	body := map[string]string{"refresh": refresh}
	var out struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/token/refresh/", "", body, &out); err != nil {
		return "", err
	}
	return out.Access, nil
}

// Me fetches the current user record for the given access token.
func (c *Client) Me(ctx context.Context, accessToken string) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SolicitarRestablecerPassword requests a password reset email.
func (c *Client) SolicitarRestablecerPassword(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var out struct {
		Detail string `json:"detail"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/restablecer-password/solicitar/", "", body, &out); err != nil {
		return "", err
	}
	return out.Detail, nil
}

// RestablecerPassword sets a new password using a reset token.
func (c *Client) RestablecerPassword(ctx context.Context, token, nueva, confirm string) (string, error) {
	body := map[string]string{
		"token":                  token,
		"nueva_password":         nueva,
		"nueva_password_confirm": confirm,
	}
	var out struct {
		Detail string `json:"detail"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/restablecer-password/", "", body, &out); err != nil {
		return "", err
	}
	return out.Detail, nil
}

// CambiarPassword changes the password of the authenticated user.
func (c *Client) CambiarPassword(ctx context.Context, accessToken, actual, nueva, confirm string) (string, error) {
	body := map[string]string{
		"password_actual":        actual,
		"nueva_password":         nueva,
		"nueva_password_confirm": confirm,
	}
	var out struct {
		Detail string `json:"detail"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/cambiar-password/", accessToken, body, &out); err != nil {
		return "", err
	}
	return out.Detail, nil
}
