package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed static/*
var EmbeddedStaticFS embed.FS

// StaticFS returns the embedded static tree rooted at static/, the layout
// app.NewModule expects (index.html, partial/, css/, js/).
func StaticFS() fs.FS {
	staticFS, err := fs.Sub(EmbeddedStaticFS, "static")
	if err != nil {
		panic("Failed to create embedded static filesystem: " + err.Error())
	}
	return staticFS
}

// ListEmbeddedFiles returns a list of all embedded static files for debugging
func ListEmbeddedFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(EmbeddedStaticFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// EmbeddedStaticHandler returns a Gin handler serving files of assets below prefix
func EmbeddedStaticHandler(assets fs.FS, prefix string) gin.HandlerFunc {
	fileServer := http.FileServer(http.FS(assets))

	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Request.URL.Path, prefix)
		if path == "" || path == "/" || strings.HasSuffix(path, "/") {
			// no directory listings
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		c.Request.URL.Path = path
		c.Header("Cache-Control", "public, max-age=3600") // browser caches an hour
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
