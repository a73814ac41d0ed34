package routing

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Resolver finds the gin handler serving a route.
// It returns false when the route's controller or template is unknown.
type Resolver func(r Route) (gin.HandlerFunc, bool)

// Mount installs every explicit route as a GET handler and the fallback as
// the engine's NoRoute handler. Routes the resolver cannot serve are skipped
// and returned so the caller can report them.
// Paths starting with one of passPrefixes never redirect; they get a plain 404.
func (t *Table) Mount(engine *gin.Engine, resolve Resolver, passPrefixes ...string) []Route {
	var unresolved []Route
	for _, r := range t.routes {
		h, ok := resolve(r)
		if !ok {
			unresolved = append(unresolved, r)
			continue
		}
		engine.GET(MountPath(r.Path), h)
	}

	if t.fallback != nil {
		engine.NoRoute(t.fallbackHandler(passPrefixes))
	}
	return unresolved
}

func (t *Table) fallbackHandler(passPrefixes []string) gin.HandlerFunc {
	redirectTo := t.fallback.RedirectTo
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range passPrefixes {
			if hasPathPrefix(path, prefix) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
		}
		if path == redirectTo {
			// nothing to redirect to, avoid a loop
			c.Status(http.StatusNotFound)
			return
		}
		c.Redirect(http.StatusFound, redirectTo)
	}
}

func hasPathPrefix(path, prefix string) bool {
	if len(path) < len(prefix) || path[:len(prefix)] != prefix {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/' || prefix[len(prefix)-1] == '/'
}
