package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-while/go-words/internal/directives"
	"github.com/go-while/go-words/internal/filters"
	"github.com/go-while/go-words/internal/routing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var assets = fstest.MapFS{
	"index.html":               {Data: []byte(`<p data-app-version></p>`)},
	"partial/somepartial.html": {Data: []byte(`{{ .Route.Controller | title }} {{ "v%VERSION%" | interpolate }} q={{ .Query.q }}`)},
	"partial/notes.txt":        {Data: []byte(`not a template`)},
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	called := false
	require.NoError(t, reg.Register("controller name here", ControllerFunc(func(c *gin.Context, r routing.Route) { called = true })))
	assert.Error(t, reg.Register("controller name here", ControllerFunc(func(*gin.Context, routing.Route) {})))
	assert.Error(t, reg.Register("", ControllerFunc(func(*gin.Context, routing.Route) {})))

	ctrl, ok := reg.Lookup("controller name here")
	require.True(t, ok)
	ctrl.Serve(nil, routing.Route{})
	assert.True(t, called)

	_, ok = reg.Lookup("Controller Name Here")
	assert.False(t, ok)
	assert.Equal(t, []string{"controller name here"}, reg.Names())
}

func TestLoadPartials(t *testing.T) {
	p, err := LoadPartials(assets, "partial", filters.FuncMap("2.0"))
	require.NoError(t, err)
	assert.True(t, p.Has("partial/somepartial"))
	assert.True(t, p.Has("/partial/somepartial"))
	assert.False(t, p.Has("partial/notes"))

	_, err = LoadPartials(fstest.MapFS{"partial/bad.html": {Data: []byte(`{{ .Broken `)}}, "partial", nil)
	assert.Error(t, err)
}

func TestPartialController(t *testing.T) {
	p, err := LoadPartials(assets, "partial", filters.FuncMap("2.0"))
	require.NoError(t, err)
	pc := &PartialController{Partials: p, Version: "2.0"}

	engine := gin.New()
	route := routing.Route{Path: "somepathhere", TemplateURL: "partial/somepartial", Controller: "controller name here"}
	engine.GET("/somepathhere", func(c *gin.Context) { pc.Serve(c, route) })
	engine.GET("/missing", func(c *gin.Context) { pc.Serve(c, routing.Route{TemplateURL: "partial/missing"}) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/somepathhere?q=x", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Controller Name Here v2.0 q=x", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHomeController(t *testing.T) {
	reg := directives.NewRegistry()
	require.NoError(t, reg.Register(directives.VersionDirective, directives.AppVersion("2.0")))
	home, err := NewHomeController(assets, "index.html", reg)
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/", home.Handle)
	engine.GET("/version", VersionHandler("2.0"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<p data-app-version="">2.0</p>`)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.JSONEq(t, `{"version":"2.0"}`, w.Body.String())

	_, err = NewHomeController(assets, "missing.html", reg)
	assert.Error(t, err)
}
