// Package resource mounts REST resources on gin router groups and maps
// service errors to HTTP status codes.
package resource

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-words/internal/models"
)

// Handler is a REST resource. Every method gets the gin context for query
// parameters and the request body; ids are already parsed.
type Handler interface {
	List(c *gin.Context) (interface{}, error)
	Get(c *gin.Context, id int64) (interface{}, error)
	Create(c *gin.Context) (interface{}, error)
	Update(c *gin.Context, id int64) (interface{}, error)
	Delete(c *gin.Context, id int64) error
}

// Options tune the HTTP semantics of one resource
type Options struct {
	// IDParam names the path parameter, default "id"
	IDParam string
	// DeleteMissingStatus is returned when deleting a row that does not exist, default 404
	DeleteMissingStatus int
}

// Mount registers
//
//	GET    path        List
//	GET    path/:id    Get
//	POST   path        Create  (201)
//	PUT    path/:id    Update
//	DELETE path/:id    Delete  (204)
//
// and returns the item route group so callers can add sub-resources.
func Mount(group *gin.RouterGroup, path string, h Handler, opts Options) *gin.RouterGroup {
	if opts.IDParam == "" {
		opts.IDParam = "id"
	}
	if opts.DeleteMissingStatus == 0 {
		opts.DeleteMissingStatus = http.StatusNotFound
	}
	itemPath := path + "/:" + opts.IDParam

	group.GET(path, func(c *gin.Context) {
		v, err := h.List(c)
		respond(c, http.StatusOK, v, err)
	})
	group.POST(path, func(c *gin.Context) {
		v, err := h.Create(c)
		respond(c, http.StatusCreated, v, err)
	})
	group.GET(itemPath, withID(opts.IDParam, func(c *gin.Context, id int64) {
		v, err := h.Get(c, id)
		respond(c, http.StatusOK, v, err)
	}))
	group.PUT(itemPath, withID(opts.IDParam, func(c *gin.Context, id int64) {
		v, err := h.Update(c, id)
		respond(c, http.StatusOK, v, err)
	}))
	group.DELETE(itemPath, withID(opts.IDParam, func(c *gin.Context, id int64) {
		err := h.Delete(c, id)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(opts.DeleteMissingStatus, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			Abort(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}))

	return group.Group(itemPath)
}

// withID parses the integer id path parameter or answers 400
func withID(param string, next func(c *gin.Context, id int64)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ParseID(c.Param(param))
		if err != nil {
			Abort(c, err)
			return
		}
		next(c, id)
	}
}

// ParseID parses a positive integer id
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: %w", s, models.ErrInvalid)
	}
	return id, nil
}

// QueryID parses an optional positive integer query parameter; absent means 0
func QueryID(c *gin.Context, name string) (int64, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	return ParseID(s)
}

// BindJSON decodes the request body into dst. Malformed or empty bodies are ErrInvalid.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body: %w", models.ErrInvalid)
		}
		return fmt.Errorf("unable to parse json: %v: %w", err, models.ErrInvalid)
	}
	return nil
}

func respond(c *gin.Context, status int, v interface{}, err error) {
	if err != nil {
		Abort(c, err)
		return
	}
	c.JSON(status, v)
}

// Status maps an error to the HTTP status it should produce
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Abort answers with the status of err and a JSON error body.
// Internal errors are logged and not echoed to the client.
func Abort(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("[WEB]: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
