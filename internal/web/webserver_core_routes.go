package web

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/go-while/go-words/internal/app"
	"github.com/go-while/go-words/internal/config"
	"github.com/go-while/go-words/internal/services"
)

const (
	RequestIDHeader = "X-Request-ID"
	healthTimeout   = 2 * time.Second
)

// NewServer creates the web server and mounts the module on it.
// assets is the tree served under /static, normally StaticFS().
func NewServer(webconfig *config.WebConfig, module *app.Module, svc *services.Services, assets fs.FS) *WebServer {
	if !webconfig.Debug && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Set trusted proxies for common reverse proxy setups (nginx, etc.)
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		log.Printf("[WEB]: Warning: SetTrustedProxies: %v", err)
	}

	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	// SSL headers only when we terminate TLS ourselves, not behind a proxy
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	server := &WebServer{
		Router:   router,
		Config:   webconfig,
		Module:   module,
		Services: svc,
		server:   newHTTPServer(webconfig.ListenPort, router),
	}

	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	if webconfig.AccessLog {
		router.Use(server.ApacheLogFormat())
	}
	router.Use(secure.New(secureConfig))
	router.Use(server.ReverseProxyMiddleware())
	router.Use(MaxBodySizeMiddleware(webconfig.MaxBodySize))

	server.setupRoutes(assets)
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes(assets fs.FS) {
	// Static files first (highest priority)
	s.Router.GET("/static/*filepath", EmbeddedStaticHandler(assets, "/static"))
	s.Router.HEAD("/static/*filepath", EmbeddedStaticHandler(assets, "/static"))

	s.Router.GET("/robots.txt", func(c *gin.Context) {
		c.String(http.StatusOK, "User-agent: *\nDisallow:\n")
	})
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	s.Router.GET("/healthz", s.healthz)

	// home, API, route table and fallback
	if err := s.Module.Mount(s.Router); err != nil {
		log.Printf("[WEB]: Warning: %v", err)
	}
}

func (s *WebServer) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	if err := s.Services.Healthy(ctx); err != nil {
		log.Printf("[WEB]: healthz: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.Module.Version})
}

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a new one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// MaxBodySizeMiddleware caps request bodies at limit bytes, 0 disables the cap
func MaxBodySizeMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
			c.Request.URL.Scheme = "https"
		}

		// Take the first IP from the list (original client)
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			clientIP := strings.TrimSpace(strings.Split(xff, ",")[0])
			if clientIP != "" {
				c.Request.RemoteAddr = clientIP + ":0"
			}
		}
		if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
			c.Request.RemoteAddr = realIP + ":0"
		}

		if host := c.GetHeader("X-Forwarded-Host"); host != "" {
			c.Request.Host = host
		}

		c.Next()
	}
}

func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
