// Package config loads server configuration from an optional YAML file
// with environment variable overrides. Environment always wins so
// deployments can keep secrets out of the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Odoo   OdooConfig   `yaml:"odoo"`
	LogEnv string       `yaml:"log_env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	StaticDir       string        `yaml:"static_dir"`
}

type OdooConfig struct {
	URL                string        `yaml:"url"`
	Database           string        `yaml:"database"`
	Username           string        `yaml:"username"`
	APIKey             string        `yaml:"api_key"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
}

// Load reads the file at path (skipped when empty or missing), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Odoo: OdooConfig{
			Timeout: 30 * time.Second,
		},
		LogEnv: "production",
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.Odoo.URL = getEnv("ODOO_URL", cfg.Odoo.URL)
	cfg.Odoo.Database = getEnv("ODOO_DB", cfg.Odoo.Database)
	cfg.Odoo.Username = getEnv("ODOO_USERNAME", cfg.Odoo.Username)
	cfg.Odoo.APIKey = getEnv("ODOO_API_KEY", cfg.Odoo.APIKey)
	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	cfg.Server.StaticDir = getEnv("STATIC_DIR", cfg.Server.StaticDir)
	cfg.LogEnv = getEnv("LOG_ENV", cfg.LogEnv)
	if v := os.Getenv("ODOO_SKIP_TLS_VERIFY"); v != "" {
		cfg.Odoo.InsecureSkipVerify = v == "1" || v == "true"
	}

	if cfg.Odoo.URL == "" {
		return nil, fmt.Errorf("config: odoo.url is required (ODOO_URL)")
	}
	if cfg.Odoo.Database == "" {
		return nil, fmt.Errorf("config: odoo.database is required (ODOO_DB)")
	}
	if cfg.Odoo.Username == "" {
		return nil, fmt.Errorf("config: odoo.username is required (ODOO_USERNAME)")
	}
	if cfg.Odoo.APIKey == "" {
		return nil, fmt.Errorf("config: odoo.api_key is required (ODOO_API_KEY)")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
