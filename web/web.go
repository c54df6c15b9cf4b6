// Package web embeds the HTML templates and static assets and renders the
// site's three pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"jee-solver/internal/solve"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html static/*.css
var assets embed.FS

// md converts the model's raw markdown response to HTML for the solution
// page.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// IndexData feeds the question form. Error, when set, is shown as a banner.
type IndexData struct {
	Error   string
	Engine  string
	Engines []string
}

// SolutionData feeds the solution page.
type SolutionData struct {
	Solution  *solve.Solution
	RawHTML   template.HTML
	Timestamp string
	Engine    string
}

// ErrorData feeds the error page.
type ErrorData struct {
	Message string
}

type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates once.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

func (r *Renderer) Index(w io.Writer, data IndexData) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", data)
}

func (r *Renderer) Solution(w io.Writer, data SolutionData) error {
	return r.tmpl.ExecuteTemplate(w, "solution.html", data)
}

func (r *Renderer) Error(w io.Writer, message string) error {
	return r.tmpl.ExecuteTemplate(w, "error.html", ErrorData{Message: message})
}

// MarkdownHTML renders trusted model output from markdown to HTML.
func MarkdownHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// StaticHandler serves the embedded stylesheet under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic("web: static subtree missing: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
