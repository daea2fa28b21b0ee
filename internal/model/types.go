package model

// Tokens is the token pair issued by the account API on login or OTP
// verification. The client holds at most one pair at a time.
type Tokens struct {
	Access        string `json:"access"`
	Refresh       string `json:"refresh"`
	AccessExpires int64  `json:"access_expires,omitempty"`
	UserID        int64  `json:"user_id"`
	Email         string `json:"email"`
	Rol           string `json:"rol"`
}

// User is the account record returned by GET /auth/me/. Read-only from
// this client's perspective.
type User struct {
	ID            int64    `json:"id"`
	Email         string   `json:"email"`
	VerifiedEmail bool     `json:"verified_email"`
	VerifiedPhone bool     `json:"verified_phone"`
	DateJoined    string   `json:"date_joined"`
	Rol           *int64   `json:"rol"`
	RolInfo       *RolInfo `json:"rol_info"`
	Perfil        *Perfil  `json:"perfil"`
}

// RolInfo describes the role attached to a user.
type RolInfo struct {
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

// Perfil holds the mutable contact fields of an account.
type Perfil struct {
	ID                  int64  `json:"id"`
	Nombre              string `json:"nombre"`
	Apellido            string `json:"apellido"`
	Telefono            string `json:"telefono"`
	TelefonoAlternativo string `json:"telefono_alternativo"`
	Avatar              string `json:"avatar"`
	CreadoEn            string `json:"creado_en"`
	ActualizadoEn       string `json:"actualizado_en"`
}

// Sesion is a device session record. Revocation is terminal.
type Sesion struct {
	ID              int64  `json:"id"`
	DeviceID        string `json:"device_id"`
	IP              string `json:"ip"`
	UserAgent       string `json:"user_agent"`
	UltimaActividad string `json:"ultima_actividad"`
	CreadoEn        string `json:"creado_en"`
}

// TwoFASetup is the ephemeral setup payload returned by GET /auth/2fa/setup/.
// It is only valid until activation and is never persisted client-side.
type TwoFASetup struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
}
