// Package config provides configuration management for ragdeck.
// It uses Viper to load settings from files, environment variables, and CLI flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for ragdeck.
type Config struct {
	// ── Server ───────────────────────────────────────────────────────────────
	ServerHost string `mapstructure:"server_host"`
	Port       int    `mapstructure:"port"`
	// BaseURL prefixes every link the page emits, e.g. "/deck" behind a proxy.
	BaseURL string `mapstructure:"base_url"`

	// ── Assets ───────────────────────────────────────────────────────────────
	// AssetDir is the base directory every image path is resolved against.
	AssetDir    string `mapstructure:"asset_dir"`
	WatchAssets bool   `mapstructure:"watch_assets"`

	// ── Render log ───────────────────────────────────────────────────────────
	DBPath string `mapstructure:"db_path"`

	// ── Admin API ────────────────────────────────────────────────────────────
	JWTSecret string `mapstructure:"jwt_secret"`
	AdminUser string `mapstructure:"admin_user"`
	// AdminPass may be plain text or a bcrypt hash ("$2a$...").
	AdminPass string `mapstructure:"admin_pass"`

	// ── Logging ──────────────────────────────────────────────────────────────
	LogLevel string `mapstructure:"log_level"`
	// LogFile enables a rotated file sink next to stderr.
	LogFile string `mapstructure:"log_file"`
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.Port)
}

// Load reads config from file (./config.yaml or ~/.ragdeck/config.yaml)
// and falls back to defaults. A .env file in the working directory is
// loaded first; environment variables with prefix RAGDECK_ override file
// values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("server_host", "127.0.0.1")
	v.SetDefault("port", 8501)
	v.SetDefault("base_url", "")

	v.SetDefault("asset_dir", "assets")
	v.SetDefault("watch_assets", false)

	v.SetDefault("db_path", "ragdeck.db")

	// MUST be overridden in production via config.yaml or env vars.
	v.SetDefault("jwt_secret", "rAgD3ck#change-me")
	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_pass", "admin")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.ragdeck")
	if err := v.ReadInConfig(); err != nil {
		// config file is optional; ignore "not found" errors
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("RAGDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}
