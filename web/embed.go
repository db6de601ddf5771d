// Package web holds the server-rendered templates of the public site and the
// admin console.
package web

import (
	"embed"
	"html/template"
	"strings"

	"github.com/devfolio/devfolio/internal/site"
)

//go:embed templates/*.html
var templateFS embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"join":         func(xs []string) string { return strings.Join(xs, ", ") },
	"levelBand":    site.LevelBand,
	"levelPercent": site.LevelPercent,
	"clampLevel":   site.ClampLevel,
}

// Templates parses the embedded templates. Pages are addressed by file name,
// e.g. "home.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

func MustTemplates() *template.Template {
	return template.Must(Templates())
}
