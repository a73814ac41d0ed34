// words-web serves the go-words application: the browser shell, the REST API and the route table
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"

	"github.com/go-while/go-words/internal/app"
	"github.com/go-while/go-words/internal/cache"
	"github.com/go-while/go-words/internal/config"
	"github.com/go-while/go-words/internal/database"
	"github.com/go-while/go-words/internal/services"
	"github.com/go-while/go-words/internal/web"
)

var (
	// command-line flags
	configFile  string
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	dataDir     string
	pprofAddr   string
	updateFile  string

	maxCatalogCache       int
	maxCatalogCacheExpiry int
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.StringVar(&configFile, "config", "", "config file (yaml, json or toml); WORDS_* environment variables override it")
	flag.IntVar(&webport, "webport", 0, "Web server port (default: 11880 (no ssl) or 11443 (webssl))")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&dataDir, "datadir", "", "Directory holding words.sq3 (default: ./data)")
	flag.StringVar(&pprofAddr, "pprof", "", "Serve pprof on this address, e.g. 127.0.0.1:51111 (default: off)")
	flag.StringVar(&updateFile, "updatefile", ".update", "graceful shutdown when this file appears (empty disables)")
	flag.IntVar(&maxCatalogCache, "maxcatalogcache", cache.DefaultCatalogCacheEntries, "maximum number of cached catalog listings (0 disables the cache)")
	flag.IntVar(&maxCatalogCacheExpiry, "maxcatalogcacheexpiry", 5, "expiry of cached catalog listings in minutes")
	flag.Parse()

	log.Printf("Starting go-words: Web Server (version: %s)", appVersion)

	mainConfig, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("[WEB]: Failed to load configuration: %v", err)
	}
	applyFlags(mainConfig)
	if err := mainConfig.Validate(); err != nil {
		log.Fatalf("[WEB]: %v", err)
	}
	webConfig := &mainConfig.Web
	log.Printf("[WEB]: Using WEB configuration: %#v", *webConfig)

	if pprofAddr != "" {
		p := prof.NewProf()
		go p.PprofWeb(pprofAddr)
		log.Printf("[WEB]: pprof listening on %s", pprofAddr)
	}

	dbConfig := database.DefaultDBConfig()
	dbConfig.DataDir = mainConfig.Database.DataDir
	dbConfig.WALMode = mainConfig.Database.WALMode
	db, err := database.OpenDatabase(dbConfig)
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize database: %v", err)
	}

	var opts []services.Option
	if maxCatalogCache > 0 {
		catalogCache := cache.NewCatalogCache(maxCatalogCache, time.Duration(maxCatalogCacheExpiry)*time.Minute)
		defer catalogCache.Stop()
		opts = append(opts, services.WithCatalogCache(catalogCache))
		log.Printf("[WEB]: Catalog cache initialized (%d entries, %d min)", maxCatalogCache, maxCatalogCacheExpiry)
	}
	svc := services.New(db, mainConfig.AppVersion, opts...)
	module, err := app.NewModule(mainConfig.AppVersion, svc, web.StaticFS())
	if err != nil {
		log.Fatalf("[WEB]: Failed to build module: %v", err)
	}
	if err := module.Validate(); err != nil {
		log.Printf("[WEB]: Warning: %v", err)
	}
	log.Printf("[WEB]: Module %s requires %v", module.Name(), module.Requires())

	server := web.NewServer(webConfig, module, svc, web.StaticFS())
	log.Printf("[WEB]: Starting go-words web server on %s://localhost:%d", webConfig.Protocol(), webConfig.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webServerErrChan := make(chan error, 1)
	go func() {
		webServerErrChan <- server.Start()
	}()

	updateFileChan := make(chan bool, 1)
	if updateFile != "" {
		go monitorUpdateFile(ctx, updateFile, updateCheckInterval, updateFileChan)
	}

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-ctx.Done():
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		if err != nil {
			_ = db.Shutdown()
			log.Fatalf("[WEB]: Failed to start web server: %v", err)
		}
	case <-updateFileChan:
		log.Printf("[WEB]: Update file detected, initiating graceful shutdown for update...")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), webConfig.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WEB]: Error during web server shutdown: %v", err)
	}

	if err := db.Shutdown(); err != nil {
		log.Printf("[WEB]: Failed to shutdown database: %v", err)
		os.Exit(1)
	}
	log.Printf("[WEB]: Graceful shutdown completed")
}
