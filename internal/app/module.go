// Package app is the composition root of go-words. NewModule assembles the
// sub-namespaces and the route table once at startup; the result is handed
// explicitly to the web server.
package app

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"

	"github.com/go-while/go-words/internal/controllers"
	"github.com/go-while/go-words/internal/directives"
	"github.com/go-while/go-words/internal/filters"
	"github.com/go-while/go-words/internal/resource"
	"github.com/go-while/go-words/internal/routing"
	"github.com/go-while/go-words/internal/services"
)

// Name is the top-level namespace
const Name = "words"

// Sub-namespaces the module is composed of
const (
	NSRoute       = "route"
	NSResource    = "resource"
	NSFilters     = Name + ".filters"
	NSServices    = Name + ".services"
	NSDirectives  = Name + ".directives"
	NSControllers = Name + ".controllers"
)

// The one explicit route and the fallback
const (
	RoutePath        = "somepathhere"
	RouteTemplate    = "partial/somepartial"
	RouteController  = "controller name here"
	FallbackRedirect = "/"
)

const (
	APIPrefix   = "/api/v1"
	IndexFile   = "index.html"
	PartialsDir = "partial"
)

// Module is the assembled application
type Module struct {
	name     string
	requires []string

	Version     string
	routes      *routing.Table
	Filters     template.FuncMap
	Services    *services.Services
	Directives  *directives.Registry
	Controllers *controllers.Registry
	Partials    *controllers.Partials

	home *controllers.HomeController
}

// NewModule builds the module. assets must contain IndexFile and the PartialsDir tree.
func NewModule(version string, svc *services.Services, assets fs.FS) (*Module, error) {
	if svc == nil {
		return nil, fmt.Errorf("app: services must not be nil")
	}
	m := &Module{
		name:     Name,
		requires: []string{NSRoute, NSResource, NSFilters, NSServices, NSDirectives, NSControllers},
		Version:  version,
		Services: svc,
		Filters:  filters.FuncMap(version),
	}

	m.Directives = directives.NewRegistry()
	if err := m.Directives.Register(directives.VersionDirective, directives.AppVersion(m.Version)); err != nil {
		return nil, err
	}

	partials, err := controllers.LoadPartials(assets, PartialsDir, m.Filters)
	if err != nil {
		return nil, err
	}
	m.Partials = partials

	m.home, err = controllers.NewHomeController(assets, IndexFile, m.Directives)
	if err != nil {
		return nil, err
	}

	m.Controllers = controllers.NewRegistry()
	if err := m.Controllers.Register(RouteController, &controllers.PartialController{Partials: partials, Version: m.Version}); err != nil {
		return nil, err
	}

	m.routes = routing.NewTable().
		When(RoutePath, routing.Route{TemplateURL: RouteTemplate, Controller: RouteController}).
		Otherwise(FallbackRedirect)

	return m, nil
}

// Name is the top-level namespace, "words"
func (m *Module) Name() string { return m.name }

// Routes is the route table installed by Mount
func (m *Module) Routes() *routing.Table { return m.routes }

// Requires returns the names of the sub-namespaces
func (m *Module) Requires() []string {
	out := make([]string, len(m.requires))
	copy(out, m.requires)
	return out
}

// resolve finds the handler of a route, false if its controller or template is unknown
func (m *Module) resolve(r routing.Route) (gin.HandlerFunc, bool) {
	ctrl, ok := m.Controllers.Lookup(r.Controller)
	if !ok || !m.Partials.Has(r.TemplateURL) {
		return nil, false
	}
	return func(c *gin.Context) { ctrl.Serve(c, r) }, true
}

// Validate lists every route whose controller or template is not registered
func (m *Module) Validate() error {
	var result *multierror.Error
	for _, r := range m.routes.Routes() {
		if _, ok := m.Controllers.Lookup(r.Controller); !ok {
			result = multierror.Append(result, fmt.Errorf("route %q: unknown controller %q", r.Path, r.Controller))
		}
		if !m.Partials.Has(r.TemplateURL) {
			result = multierror.Append(result, fmt.Errorf("route %q: unknown template %q", r.Path, r.TemplateURL))
		}
	}
	return result.ErrorOrNil()
}

// Mount installs the home page, the REST API, the route table and the
// fallback on engine. Routes that cannot be resolved are skipped and
// reported in the returned error; everything else is mounted regardless.
func (m *Module) Mount(engine *gin.Engine) error {
	engine.GET("/", m.home.Handle)

	api := engine.Group(APIPrefix)
	api.GET("/version", controllers.VersionHandler(m.Version))
	resource.Mount(api, "/users", &controllers.UsersController{Users: m.Services.Users},
		resource.Options{DeleteMissingStatus: http.StatusBadRequest})
	resource.Mount(api, "/languages", &controllers.LanguagesController{Languages: m.Services.Languages}, resource.Options{})
	catalogs := &controllers.CatalogsController{Catalogs: m.Services.Catalogs, Words: m.Services.Words}
	resource.Mount(api, "/catalogs", catalogs, resource.Options{}).GET("/words", catalogs.ListWords)
	resource.Mount(api, "/words", &controllers.WordsController{Words: m.Services.Words}, resource.Options{})

	var result *multierror.Error
	for _, r := range m.routes.Mount(engine, m.resolve, "/api", "/static") {
		result = multierror.Append(result, fmt.Errorf("route %q not mounted: controller %q or template %q unknown", r.Path, r.Controller, r.TemplateURL))
	}
	for _, r := range m.routes.Routes() {
		log.Printf("[WEB]: route %s -> %s (%s)", routing.MountPath(r.Path), r.TemplateURL, r.Controller)
	}
	if fb := m.routes.Fallback(); fb != nil {
		log.Printf("[WEB]: unmatched paths redirect to %s", fb.RedirectTo)
	}
	return result.ErrorOrNil()
}
