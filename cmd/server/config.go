// Config loading for the billbook server.
package main

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	cfgKeyPort        = "port"
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyStaticPath  = "static_path"
	cfgKeyCORSOrigins = "cors_origins"
	cfgKeyLogLevel    = "log_level"

	backendJSON   = "json"
	backendSQLite = "sqlite"
)

// config holds the resolved server settings.
type config struct {
	Port        int
	Backend     string
	DataDir     string
	StaticPath  string
	CORSOrigins []string
	LogLevel    string
}

// loadConfig resolves settings from defaults, an optional config.yaml in
// the working directory, and BILLBOOK_* environment variables (highest
// precedence). A missing config.yaml is not an error.
func loadConfig() (*config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyPort, 8080)
	v.SetDefault(cfgKeyBackend, backendJSON)
	v.SetDefault(cfgKeyDataDir, "./data")
	v.SetDefault(cfgKeyStaticPath, "")
	v.SetDefault(cfgKeyCORSOrigins, []string{})
	v.SetDefault(cfgKeyLogLevel, "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLBOOK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &config{
		Port:        v.GetInt(cfgKeyPort),
		Backend:     v.GetString(cfgKeyBackend),
		DataDir:     v.GetString(cfgKeyDataDir),
		StaticPath:  v.GetString(cfgKeyStaticPath),
		CORSOrigins: v.GetStringSlice(cfgKeyCORSOrigins),
		LogLevel:    v.GetString(cfgKeyLogLevel),
	}

	if cfg.Backend != backendJSON && cfg.Backend != backendSQLite {
		return nil, fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, backendJSON, backendSQLite)
	}
	return cfg, nil
}
