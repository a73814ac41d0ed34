// Package controllers holds the named view controllers the route table
// refers to and the REST handlers of the API.
package controllers

import (
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-words/internal/routing"
)

// Controller serves a routed view
type Controller interface {
	Serve(c *gin.Context, r routing.Route)
}

// ControllerFunc adapts a function to Controller
type ControllerFunc func(c *gin.Context, r routing.Route)

func (f ControllerFunc) Serve(c *gin.Context, r routing.Route) { f(c, r) }

// Registry maps controller names, as used in route tables, to controllers
type Registry struct {
	controllers map[string]Controller
}

func NewRegistry() *Registry {
	return &Registry{controllers: make(map[string]Controller)}
}

// Register adds a controller under name. Names are matched exactly.
func (r *Registry) Register(name string, ctrl Controller) error {
	if name == "" {
		return fmt.Errorf("controller name must not be empty")
	}
	if _, exists := r.controllers[name]; exists {
		return fmt.Errorf("controller %q already registered", name)
	}
	r.controllers[name] = ctrl
	return nil
}

func (r *Registry) Lookup(name string) (Controller, bool) {
	ctrl, ok := r.controllers[name]
	return ctrl, ok
}

// Names returns the registered controller names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.controllers))
	for n := range r.controllers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
