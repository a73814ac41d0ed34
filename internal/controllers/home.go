package controllers

import (
	"bytes"
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-words/internal/directives"
)

// HomeController serves the application shell. The page is compiled once
// when the controller is built, so each directive in it binds exactly once.
type HomeController struct {
	page []byte
}

// NewHomeController reads indexFile from assets and compiles its directives
func NewHomeController(assets fs.FS, indexFile string, reg *directives.Registry) (*HomeController, error) {
	src, err := fs.ReadFile(assets, indexFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", indexFile, err)
	}
	var out bytes.Buffer
	n, err := reg.Compile(&out, bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", indexFile, err)
	}
	log.Printf("[WEB]: Compiled %s with %d directive bindings", indexFile, n)
	return &HomeController{page: out.Bytes()}, nil
}

func (h *HomeController) Handle(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}

// VersionHandler answers {"version": version}
func VersionHandler(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": version})
	}
}
