package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTable_WhenOtherwise(t *testing.T) {
	table := NewTable().
		When("somepathhere", Route{TemplateURL: "partial/somepartial", Controller: "controller name here"}).
		Otherwise("/")

	want := []Route{{Path: "somepathhere", TemplateURL: "partial/somepartial", Controller: "controller name here"}}
	if diff := cmp.Diff(want, table.Routes()); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, table.Fallback())
	assert.Equal(t, "/", table.Fallback().RedirectTo)
}

func TestTable_WhenReplacesSamePath(t *testing.T) {
	table := NewTable().
		When("a", Route{TemplateURL: "one"}).
		When("/a/", Route{TemplateURL: "two"})
	routes := table.Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, "two", routes[0].TemplateURL)
}

func TestTable_ResolveAndRedirect(t *testing.T) {
	table := NewTable().When("somepathhere", Route{TemplateURL: "t", Controller: "c"}).Otherwise("/")

	for _, p := range []string{"somepathhere", "/somepathhere", "/somepathhere/"} {
		r, ok := table.Resolve(p)
		assert.True(t, ok, p)
		assert.Equal(t, "c", r.Controller)
		_, redirect := table.Redirect(p)
		assert.False(t, redirect, p)
	}

	_, ok := table.Resolve("/elsewhere")
	assert.False(t, ok)
	to, redirect := table.Redirect("/elsewhere")
	assert.True(t, redirect)
	assert.Equal(t, "/", to)

	_, redirect = NewTable().Redirect("/x")
	assert.False(t, redirect, "no fallback registered")
}

func TestTable_RoutesIsACopy(t *testing.T) {
	table := NewTable().When("a", Route{Controller: "c"})
	routes := table.Routes()
	routes[0].Controller = "changed"
	r, _ := table.Resolve("a")
	assert.Equal(t, "c", r.Controller)
}

func TestMountPath(t *testing.T) {
	assert.Equal(t, "/somepathhere", MountPath("somepathhere"))
	assert.Equal(t, "/a/b", MountPath("/a/b/"))
	assert.Equal(t, "/", MountPath(""))
}

func TestMount(t *testing.T) {
	table := NewTable().
		When("somepathhere", Route{TemplateURL: "partial/somepartial", Controller: "known"}).
		When("broken", Route{TemplateURL: "partial/missing", Controller: "unknown"}).
		Otherwise("/")

	engine := gin.New()
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })
	unresolved := table.Mount(engine, func(r Route) (gin.HandlerFunc, bool) {
		if r.Controller != "known" {
			return nil, false
		}
		return func(c *gin.Context) { c.String(http.StatusOK, r.TemplateURL) }, true
	}, "/api")

	require.Len(t, unresolved, 1)
	assert.Equal(t, "broken", unresolved[0].Path)

	cases := []struct {
		path     string
		status   int
		location string
		body     string
	}{
		{path: "/somepathhere", status: http.StatusOK, body: "partial/somepartial"},
		{path: "/", status: http.StatusOK, body: "home"},
		{path: "/nothing/here", status: http.StatusFound, location: "/"},
		{path: "/broken", status: http.StatusFound, location: "/"},
		{path: "/api/v1/nope", status: http.StatusNotFound},
		{path: "/apiary", status: http.StatusFound, location: "/"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.status, w.Code)
			if tc.location != "" {
				assert.Equal(t, tc.location, w.Header().Get("Location"))
			}
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}
