// Package web provides the HTTP server of go-words
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-words/internal/app"
	"github.com/go-while/go-words/internal/config"
	"github.com/go-while/go-words/internal/services"
)

// WebServer serves the module assembled by app.NewModule
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	Module    *app.Module
	Services  *services.Services
	StartTime time.Time // Track server start time for uptime calculations

	mux    sync.Mutex // guards StartTime
	server *http.Server
}

func newHTTPServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Start listens on the configured port, with TLS if configured.
// It blocks until the server stops and returns nil after a clean Shutdown.
// After Shutdown, Start returns nil without listening.
func (s *WebServer) Start() error {
	srv := s.server
	addr := srv.Addr

	s.mux.Lock()
	s.StartTime = time.Now()
	s.mux.Unlock()

	var err error
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		err = srv.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	} else {
		log.Printf("[WEB]: Starting HTTP server on %s", addr)
		err = srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for active requests until ctx is done.
// Called before Start it still takes effect: a later Start does not listen.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mux.Lock()
	started := s.StartTime
	s.mux.Unlock()
	if started.IsZero() {
		log.Printf("[WEB]: Shutting down before start")
	} else {
		log.Printf("[WEB]: Shutting down (uptime %s)", time.Since(started).Round(time.Second))
	}
	return s.server.Shutdown(ctx)
}
