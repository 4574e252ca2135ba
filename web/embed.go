// Package web holds the server-rendered templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
}

// Templates parses every page template
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}

// Static returns the assets served under /static
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// SnakePage returns the standalone minigame page
func SnakePage() []byte {
	b, err := staticFS.ReadFile("static/snake.html")
	if err != nil {
		panic(err)
	}
	return b
}
