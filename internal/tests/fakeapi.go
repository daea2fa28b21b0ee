package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/safelease/accounts-web/internal/model"
)

// Test fixture credentials and tokens understood by the fake backend.
const (
	TestEmail      = "ana@example.com"
	TestPassword   = "secreta123"
	TestUserID     = int64(7)
	TestAccess     = "acc-1"
	TestRefresh    = "ref-1"
	TestEmailToken = "tok-email"
	TestResetToken = "tok-reset"
	TestOTPCode    = "654321"
	TestTOTPCode   = "111111"
	TestSecret     = "JBSWY3DPEHPK3PXP"
)

// FakeAPI is an in-memory stand-in for the remote account backend. It
// implements just enough of each endpoint to drive the front end, and
// counts hits per path so tests can assert that local validation short-
// circuits network calls.
type FakeAPI struct {
	Server *httptest.Server

	mu          sync.Mutex
	hits        map[string]int
	validAccess map[string]bool
	refreshable map[string]string
	perfil      model.Perfil
	sesiones    []model.Sesion
	twofa       bool
}

// NewFakeAPI starts the fake backend with one known account.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		hits:        map[string]int{},
		validAccess: map[string]bool{TestAccess: true},
		refreshable: map[string]string{TestRefresh: "acc-2"},
		perfil: model.Perfil{
			ID: 1, Nombre: "Ana", Apellido: "García", Telefono: "+3466600001",
		},
		sesiones: []model.Sesion{
			{ID: 11, DeviceID: "dev-a", IP: "10.0.0.1", UserAgent: "Firefox", UltimaActividad: "2026-01-10T10:00:00Z", CreadoEn: "2026-01-01T10:00:00Z"},
			{ID: 12, DeviceID: "dev-b", IP: "10.0.0.2", UserAgent: "Chrome", UltimaActividad: "2026-01-11T10:00:00Z", CreadoEn: "2026-01-02T10:00:00Z"},
		},
	}
	f.Server = httptest.NewServer(f.routes())
	return f
}

func (f *FakeAPI) Close() { f.Server.Close() }

// Hits returns how many requests reached the given path.
func (f *FakeAPI) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// InvalidateAccess makes an access token unusable, simulating expiry.
func (f *FakeAPI) InvalidateAccess(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.validAccess, token)
}

// TwoFAEnabled reports the backend-side 2FA state.
func (f *FakeAPI) TwoFAEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.twofa
}

func (f *FakeAPI) bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(h, "Bearer ")
	return token, f.validAccess[token]
}

func (f *FakeAPI) user() model.User {
	perfil := f.perfil
	return model.User{
		ID: TestUserID, Email: TestEmail, VerifiedEmail: true,
		DateJoined: "2025-12-01T09:00:00Z", Perfil: &perfil,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func (f *FakeAPI) routes() http.Handler {
	mux := http.NewServeMux()

	count := func(path string, h http.HandlerFunc) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.hits[path]++
			f.mu.Unlock()
			h(w, r)
		})
	}

	authed := func(path string, h http.HandlerFunc) {
		count(path, func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			_, ok := f.bearer(r)
			f.mu.Unlock()
			if !ok {
				detail(w, http.StatusUnauthorized, "Token inválido.")
				return
			}
			h(w, r)
		})
	}

	count("/auth/registro/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "existe@example.com" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"Ya existe una cuenta con este email."}})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"detail": "Cuenta creada. Revisa tu correo para verificarla.",
			"email":  body["email"].(string),
		})
	})

	count("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != TestEmail || body["password"] != TestPassword {
			detail(w, http.StatusUnauthorized, "Credenciales inválidas.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access": TestAccess, "refresh": TestRefresh,
			"user_id": TestUserID, "email": TestEmail, "rol": "cliente",
		})
	})

	count("/auth/verificar-email/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != TestEmailToken {
			detail(w, http.StatusBadRequest, "Token inválido o expirado.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"detail": "Correo verificado.", "usuario_id": TestUserID, "email": TestEmail,
		})
	})

	count("/auth/verificar-otp/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UsuarioID int64  `json:"usuario_id"`
			Codigo    string `json:"codigo"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.UsuarioID != TestUserID || body.Codigo != TestOTPCode {
			detail(w, http.StatusUnauthorized, "Código inválido o expirado.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access": TestAccess, "refresh": TestRefresh,
			"user_id": TestUserID, "email": TestEmail, "rol": "cliente",
		})
	})

	count("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		access, ok := f.refreshable[body["refresh"]]
		if ok {
			f.validAccess[access] = true
		}
		f.mu.Unlock()
		if !ok {
			detail(w, http.StatusUnauthorized, "Refresh inválido o expirado.")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": access})
	})

	authed("/auth/me/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		u := f.user()
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, u)
	})

	count("/auth/restablecer-password/solicitar/", func(w http.ResponseWriter, r *http.Request) {
		detail(w, http.StatusOK, "Si el correo existe, recibirás un enlace.")
	})

	count("/auth/restablecer-password/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != TestResetToken {
			detail(w, http.StatusBadRequest, "Token inválido o expirado.")
			return
		}
		detail(w, http.StatusOK, "Contraseña restablecida.")
	})

	authed("/auth/cambiar-password/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password_actual"] != TestPassword {
			detail(w, http.StatusBadRequest, "La contraseña actual no es correcta.")
			return
		}
		detail(w, http.StatusOK, "Contraseña actualizada.")
	})

	authed("/auth/perfil/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		p := f.perfil
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, p)
	})

	authed("/auth/perfil/actualizar/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.perfil.Nombre = body["nombre"]
		f.perfil.Apellido = body["apellido"]
		f.perfil.Telefono = body["telefono"]
		f.perfil.TelefonoAlternativo = body["telefono_alternativo"]
		p := f.perfil
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, p)
	})

	authed("/auth/perfil/avatar/", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("avatar"); err != nil {
			detail(w, http.StatusBadRequest, "Archivo requerido.")
			return
		}
		f.mu.Lock()
		f.perfil.Avatar = "/media/avatar.png"
		p := f.perfil
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, p)
	})

	authed("/auth/2fa/estado/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		enabled := f.twofa
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]bool{"tiene_2fa": enabled})
	})

	authed("/auth/2fa/setup/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"secret":           TestSecret,
			"provisioning_uri": "otpauth://totp/SafeLease:" + TestEmail + "?secret=" + TestSecret,
		})
	})

	authed("/auth/2fa/activar/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["secret"] != TestSecret || body["codigo"] != TestTOTPCode {
			detail(w, http.StatusBadRequest, "Código inválido.")
			return
		}
		f.mu.Lock()
		f.twofa = true
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"detail":       "2FA activado.",
			"backup_codes": []string{"AAAA-1111", "BBBB-2222", "CCCC-3333"},
		})
	})

	authed("/auth/2fa/desactivar/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["codigo"] != TestTOTPCode {
			detail(w, http.StatusBadRequest, "Código inválido.")
			return
		}
		f.mu.Lock()
		f.twofa = false
		f.mu.Unlock()
		detail(w, http.StatusOK, "2FA desactivado.")
	})

	// Listing and revocation share a prefix route because revocation
	// carries the session id in the path.
	mux.HandleFunc("/auth/sesiones/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		_, ok := f.bearer(r)
		f.mu.Unlock()
		if !ok {
			detail(w, http.StatusUnauthorized, "Token inválido.")
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/auth/sesiones/")
		if rest == "" && r.Method == http.MethodGet {
			f.mu.Lock()
			f.hits["/auth/sesiones/"]++
			list := append([]model.Sesion(nil), f.sesiones...)
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, list)
			return
		}
		if r.Method != http.MethodPost || !strings.HasSuffix(rest, "/revocar/") {
			http.NotFound(w, r)
			return
		}
		f.mu.Lock()
		f.hits["/auth/sesiones/{id}/revocar/"]++
		f.mu.Unlock()
		id, err := strconv.ParseInt(strings.TrimSuffix(rest, "/revocar/"), 10, 64)
		if err != nil {
			detail(w, http.StatusNotFound, "Sesión no encontrada.")
			return
		}
		f.mu.Lock()
		kept := f.sesiones[:0]
		found := false
		for _, s := range f.sesiones {
			if s.ID == id {
				found = true
				continue
			}
			kept = append(kept, s)
		}
		f.sesiones = kept
		f.mu.Unlock()
		if !found {
			detail(w, http.StatusNotFound, "Sesión no encontrada.")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return mux
}
