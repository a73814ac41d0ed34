// Package routing holds the application route table: explicit path routes
// that map to a template and a controller, plus one fallback redirect.
package routing

import (
	"fmt"
	"strings"
)

// Route maps a path to the template rendered for it and the controller responsible for rendering
type Route struct {
	Path        string `json:"path"`
	TemplateURL string `json:"template_url"`
	Controller  string `json:"controller"`
}

// Fallback is applied when no explicit route matches
type Fallback struct {
	RedirectTo string `json:"redirect_to"`
}

// Table is filled once at startup and read-only afterwards
type Table struct {
	routes   []Route
	byPath   map[string]int
	fallback *Fallback
}

func NewTable() *Table {
	return &Table{byPath: make(map[string]int)}
}

// When registers an explicit route. Registering the same path again replaces it.
func (t *Table) When(path string, r Route) *Table {
	r.Path = path
	key := normalizePath(path)
	if i, ok := t.byPath[key]; ok {
		t.routes[i] = r
		return t
	}
	t.byPath[key] = len(t.routes)
	t.routes = append(t.routes, r)
	return t
}

// Otherwise sets the fallback redirect for unmatched paths
func (t *Table) Otherwise(redirectTo string) *Table {
	t.fallback = &Fallback{RedirectTo: redirectTo}
	return t
}

// Routes returns a copy of the explicit routes in registration order
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Fallback returns the fallback rule, nil if none was set
func (t *Table) Fallback() *Fallback {
	if t.fallback == nil {
		return nil
	}
	f := *t.fallback
	return &f
}

// Resolve looks up the explicit route for path.
// "somepath", "/somepath" and "/somepath/" are the same route.
func (t *Table) Resolve(path string) (Route, bool) {
	i, ok := t.byPath[normalizePath(path)]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Redirect returns where an unmatched path goes, and false if there is no fallback
func (t *Table) Redirect(path string) (string, bool) {
	if _, ok := t.Resolve(path); ok {
		return "", false
	}
	if t.fallback == nil {
		return "", false
	}
	return t.fallback.RedirectTo, true
}

func (t *Table) String() string {
	var b strings.Builder
	for _, r := range t.routes {
		fmt.Fprintf(&b, "when %q -> template=%q controller=%q\n", r.Path, r.TemplateURL, r.Controller)
	}
	if t.fallback != nil {
		fmt.Fprintf(&b, "otherwise -> redirect %q\n", t.fallback.RedirectTo)
	}
	return b.String()
}

// MountPath turns a table path into a server path with exactly one leading slash
func MountPath(path string) string {
	p := normalizePath(path)
	if p == "" {
		return "/"
	}
	return "/" + p
}

func normalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}
