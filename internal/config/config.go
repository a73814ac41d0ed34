// Package config provides configuration management for go-words.
package config

import (
	"log"
	"sync"
	"time"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Default web settings
	DefaultListenPort      = 11880
	DefaultSSLListenPort   = 11443
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize     = 64 * 1024 // 'N' KB max JSON request body
)

// MainConfig holds the main configuration for go-words
type MainConfig struct {
	// Mutex for thread-safe access
	mux sync.Mutex `json:"-"`

	// Web interface settings
	Web WebConfig `json:"web" mapstructure:"web"`

	// Database settings
	Database DatabaseConfig `json:"database" mapstructure:"database"`

	AppVersion string `json:"app_version" mapstructure:"app_version"` // Application version, set at build time
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DataDir string `json:"data_dir" mapstructure:"data_dir"` // Directory holding words.sq3
	WALMode bool   `json:"wal_mode" mapstructure:"wal_mode"`
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort      int           `json:"listen_port" mapstructure:"listen_port"`
	SSL             bool          `json:"ssl" mapstructure:"ssl"`
	CertFile        string        `json:"cert_file,omitempty" mapstructure:"cert_file"`
	KeyFile         string        `json:"key_file,omitempty" mapstructure:"key_file"`
	MaxBodySize     int64         `json:"max_body_size" mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	AccessLog       bool          `json:"access_log" mapstructure:"access_log"`
	Debug           bool          `json:"debug" mapstructure:"debug"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion, // Set application version
		Web: WebConfig{
			ListenPort:      DefaultListenPort,
			SSL:             false,
			MaxBodySize:     DefaultMaxBodySize,
			ShutdownTimeout: DefaultShutdownTimeout,
			AccessLog:       true,
		},
		Database: DatabaseConfig{
			DataDir: "./data",
			WALMode: true,
		},
	}

	maincfg.mux.Lock()
	log.Printf("[CONFIG]: MainConfig initialized (version: %s)", maincfg.AppVersion)
	maincfg.mux.Unlock()
	return maincfg
}

// Protocol returns http or https depending on the SSL setting
func (w *WebConfig) Protocol() string {
	if w.SSL {
		return "https"
	}
	return "http"
}
