// Package view renders the HTML pages through echo's Renderer hook.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"cmrpai/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageNNAList   = "nna_list"
	PageNNAForm   = "nna_form"
	PageError     = "error"
)

var pageNames = []string{PageLogin, PageDashboard, PageNNAList, PageNNAForm, PageError}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string // "success", "danger", "info"
	Message  string
}

// Page is the data handed to every template.
type Page struct {
	Title    string
	Identity *auth.Identity
	Flashes  []Flash
	Data     interface{}
}

// LoginData fills the login form.
type LoginData struct {
	Username string
	Next     string
}

// ErrorData describes a failed request.
type ErrorData struct {
	Status  int
	Message string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02-01-2006")
	},
	"statusLabel": func(s string) string {
		switch s {
		case "activo":
			return "Activo"
		case "egresado":
			return "Egresado"
		default:
			return s
		}
	},
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes the named page. data must be a Page or *Page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
