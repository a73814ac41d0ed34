package controllers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-words/internal/routing"
)

const partialExt = ".html"

// Partials is the set of view templates, keyed by template url ("partial/somepartial")
type Partials struct {
	templates map[string]*template.Template
}

// LoadPartials parses every *.html below dir in assets. Each file becomes
// one template named by its path without extension, e.g. "partial/somepartial".
func LoadPartials(assets fs.FS, dir string, funcs template.FuncMap) (*Partials, error) {
	p := &Partials{templates: make(map[string]*template.Template)}
	err := fs.WalkDir(assets, dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(file, partialExt) {
			return nil
		}
		content, err := fs.ReadFile(assets, file)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(file, partialExt)
		tmpl, err := template.New(path.Base(name)).Funcs(funcs).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse partial %s: %w", file, err)
		}
		p.templates[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load partials from %s: %w", dir, err)
	}
	return p, nil
}

// Has reports whether a template url is known
func (p *Partials) Has(templateURL string) bool {
	_, ok := p.templates[strings.TrimPrefix(templateURL, "/")]
	return ok
}

// PartialData is passed to every partial template
type PartialData struct {
	Route   routing.Route
	Version string
	Query   map[string]string
}

// PartialController renders the route's template with the request query as data
type PartialController struct {
	Partials *Partials
	Version  string
}

func (pc *PartialController) Serve(c *gin.Context, r routing.Route) {
	tmpl, ok := pc.Partials.templates[strings.TrimPrefix(r.TemplateURL, "/")]
	if !ok {
		c.String(http.StatusNotFound, "template %s not found", r.TemplateURL)
		return
	}
	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := tmpl.Execute(c.Writer, PartialData{Route: r, Version: pc.Version, Query: query}); err != nil {
		_ = c.Error(fmt.Errorf("render %s: %w", r.TemplateURL, err))
	}
}
