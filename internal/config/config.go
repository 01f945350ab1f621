package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API       APIConfig       `yaml:"api"`
	State     StateConfig     `yaml:"state"`
	Session   SessionConfig   `yaml:"session"`
	Log       LogConfig       `yaml:"log"`
	DevServer DevServerConfig `yaml:"devserver"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type StateConfig struct {
	Dir string `yaml:"dir"`
}

type SessionConfig struct {
	Timezone string `yaml:"timezone"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DevServerConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// Timezone decides which calendar day a session instant falls on.
	Timezone string `yaml:"timezone"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		State:   StateConfig{Dir: defaultStateDir()},
		Session: SessionConfig{Timezone: "UTC"},
		Log:     LogConfig{Level: "info"},
		DevServer: DevServerConfig{
			Host:     "127.0.0.1",
			Port:     8080,
			TokenTTL: 24 * time.Hour,
			Timezone: "UTC",
		},
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gymlog")
	}
	return ".gymlog"
}

// Load builds the config from defaults, then the YAML file at path (skipped
// when path is empty), then environment variable overrides. A .env file in
// the working directory is read first; it never replaces variables already
// set. Env vars use the prefix GYMLOG_:
//
//	GYMLOG_API_BASE_URL, GYMLOG_API_TIMEOUT, GYMLOG_STATE_DIR,
//	GYMLOG_TIMEZONE, GYMLOG_LOG_LEVEL,
//	GYMLOG_DEVSERVER_HOST, GYMLOG_DEVSERVER_PORT,
//	GYMLOG_DEVSERVER_JWT_SECRET, GYMLOG_DEVSERVER_TOKEN_TTL
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GYMLOG_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("GYMLOG_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GYMLOG_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	if v := os.Getenv("GYMLOG_STATE_DIR"); v != "" {
		cfg.State.Dir = v
	}
	if v := os.Getenv("GYMLOG_TIMEZONE"); v != "" {
		cfg.Session.Timezone = v
	}
	if v := os.Getenv("GYMLOG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GYMLOG_DEVSERVER_HOST"); v != "" {
		cfg.DevServer.Host = v
	}
	if v := os.Getenv("GYMLOG_DEVSERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DevServer.Port = port
		}
	}
	if v := os.Getenv("GYMLOG_DEVSERVER_JWT_SECRET"); v != "" {
		cfg.DevServer.JWTSecret = v
	}
	if v := os.Getenv("GYMLOG_DEVSERVER_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GYMLOG_DEVSERVER_TOKEN_TTL: %w", err)
		}
		cfg.DevServer.TokenTTL = d
	}
	if v := os.Getenv("GYMLOG_DEVSERVER_TIMEZONE"); v != "" {
		cfg.DevServer.Timezone = v
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.State.Dir == "" {
		return fmt.Errorf("state.dir is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Validate checks the settings only the reference backend needs.
func (d DevServerConfig) Validate() error {
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("devserver.port must be 1-65535, got %d", d.Port)
	}
	if d.JWTSecret == "" {
		return fmt.Errorf("devserver.jwt_secret is required")
	}
	if d.TokenTTL <= 0 {
		return fmt.Errorf("devserver.token_ttl must be positive")
	}
	if _, err := d.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the timezone the reference backend buckets sessions by.
func (d DevServerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("devserver.timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}

// Addr returns host:port for net.Listen.
func (d DevServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// Location returns the timezone bare session dates are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Session.Timezone)
	if err != nil {
		return nil, fmt.Errorf("session.timezone %q: %w", c.Session.Timezone, err)
	}
	return loc, nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q: want debug, info, warn or error", s)
}
