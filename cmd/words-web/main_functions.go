package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-while/go-words/internal/config"
)

const updateCheckInterval = 60 * time.Second

// applyFlags overrides the loaded configuration with command-line flags
func applyFlags(mainConfig *config.MainConfig) {
	webConfig := &mainConfig.Web
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	} else if webssl && webConfig.ListenPort == config.DefaultListenPort {
		webConfig.ListenPort = config.DefaultSSLListenPort
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
		log.Printf("[WEB]: SSL cert file set: %s", webConfig.CertFile)
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
		log.Printf("[WEB]: SSL key file set: %s", webConfig.KeyFile)
	}
	if dataDir != "" {
		mainConfig.Database.DataDir = dataDir
		log.Printf("[WEB]: Data dir set: %s", dataDir)
	}
	if mainConfig.AppVersion == "" || mainConfig.AppVersion == "-unset-" {
		mainConfig.AppVersion = appVersion
	}
}

// monitorUpdateFile signals shutdownChan once updateFilePath appears.
// The file is renamed to *.todo so a restarted server does not stop again.
func monitorUpdateFile(ctx context.Context, updateFilePath string, interval time.Duration, shutdownChan chan<- bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[WEB]: Update file monitor started, checking for '%s' every %s", updateFilePath, interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if _, err := os.Stat(updateFilePath); err != nil {
			continue
		}
		log.Printf("[WEB]: Update file '%s' detected, triggering graceful shutdown", updateFilePath)
		if err := os.Rename(updateFilePath, updateFilePath+".todo"); err != nil {
			log.Printf("[WEB]: Warning: Failed to rename update file '%s': %v", updateFilePath, err)
			continue
		}
		select {
		case shutdownChan <- true:
		default:
			log.Printf("[WEB]: Shutdown channel already signaled")
		}
		return
	}
}
