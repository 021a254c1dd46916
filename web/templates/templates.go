// Package templates holds the server rendered pages.
package templates

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Page template names.
const (
	PageHome      = "home.html"
	PageSignIn    = "signin.html"
	PageSignUp    = "signup.html"
	PageDashboard = "dashboard.html"
	PageKick      = "kick.html"
	PageLoading   = "loading.html"
	PageError     = "error.html"
)

// Parse parses every embedded page and partial.
func Parse() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
