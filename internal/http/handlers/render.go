package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/safelease/accounts-web/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ViewData is the payload every template receives.
type ViewData struct {
	Title     string
	User      *model.User
	CSRFToken string
	Error     string
	Success   string
	// Data carries page-specific values.
	Data map[string]any
}

// Renderer holds the parsed view templates. Each page template is parsed
// together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var pageNames = []string{
	"login", "register", "verify_email", "verify_otp", "restore_password",
	"dashboard", "profile", "change_password", "sessions", "twofa",
}

// NewRenderer parses the embedded templates. It panics on malformed
// templates since those are a build defect, not a runtime condition.
func NewRenderer() *Renderer {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			panic(fmt.Sprintf("parse template %s: %v", name, err))
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}
}

// Render writes the named page with the given status code.
func (re *Renderer) Render(w http.ResponseWriter, status int, page string, data *ViewData) {
	t, ok := re.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &ViewData{}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("render failed")
	}
}
