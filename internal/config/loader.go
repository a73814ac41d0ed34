package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. WORDS_WEB_LISTEN_PORT.
const EnvPrefix = "WORDS"

// Load builds a MainConfig from defaults, an optional config file and
// WORDS_* environment variables, in that order of precedence.
// An empty configPath skips the file. A configPath that does not exist is an error.
func Load(configPath string) (*MainConfig, error) {
	cfg := NewDefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper, cfg *MainConfig) {
	v.SetDefault("app_version", cfg.AppVersion)
	v.SetDefault("web.listen_port", cfg.Web.ListenPort)
	v.SetDefault("web.ssl", cfg.Web.SSL)
	v.SetDefault("web.cert_file", cfg.Web.CertFile)
	v.SetDefault("web.key_file", cfg.Web.KeyFile)
	v.SetDefault("web.max_body_size", cfg.Web.MaxBodySize)
	v.SetDefault("web.shutdown_timeout", cfg.Web.ShutdownTimeout)
	v.SetDefault("web.access_log", cfg.Web.AccessLog)
	v.SetDefault("web.debug", cfg.Web.Debug)
	v.SetDefault("database.data_dir", cfg.Database.DataDir)
	v.SetDefault("database.wal_mode", cfg.Database.WALMode)
}

// Validate checks values that would otherwise fail late at listen time.
func (c *MainConfig) Validate() error {
	if c.Web.ListenPort < 1024 || c.Web.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1024 and 65535)", c.Web.ListenPort)
	}
	if c.Web.SSL && (c.Web.CertFile == "" || c.Web.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	if c.Database.DataDir == "" {
		return errors.New("database data_dir must be set")
	}
	return nil
}
