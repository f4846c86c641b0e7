package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAddr          = ":8080"
	defaultAPIBaseURL    = "http://localhost:5000/api"
	defaultSessionMaxAge = 7
	devSessionSecret     = "authportal-dev-secret-change-me!"
)

// Provider exposes the application configuration through getters so that
// handlers and tests can depend on an interface rather than the struct.
type Provider interface {
	GetAddr() string
	GetAPIBaseURL() string
	GetSessionSecret() string
	GetSessionMaxAgeDays() int
	GetCookieSecure() bool
	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the application.
type Config struct {
	Addr              string
	APIBaseURL        string
	SessionSecret     string
	SessionMaxAgeDays int
	CookieSecure      bool
	LogFormat         string
	LogLevel          string
}

// New loads configuration from environment variables, reading a .env file
// first when one is present.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		Addr:              getEnv("APP_ADDR", defaultAddr),
		APIBaseURL:        strings.TrimRight(getEnv("API_URL", defaultAPIBaseURL), "/"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionMaxAgeDays: getEnvInt("SESSION_MAX_AGE_DAYS", defaultSessionMaxAge),
		CookieSecure:      getEnvBool("COOKIE_SECURE", false),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		LogLevel:          getEnv("LOG_LEVEL", "debug"),
	}

	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET is not set, using the development secret")
		cfg.SessionSecret = devSessionSecret
	}

	return cfg
}

func (c *Config) GetAddr() string           { return c.Addr }
func (c *Config) GetAPIBaseURL() string     { return c.APIBaseURL }
func (c *Config) GetSessionSecret() string  { return c.SessionSecret }
func (c *Config) GetSessionMaxAgeDays() int { return c.SessionMaxAgeDays }
func (c *Config) GetCookieSecure() bool     { return c.CookieSecure }
func (c *Config) GetLogFormat() string      { return c.LogFormat }
func (c *Config) GetLogLevel() string       { return c.LogLevel }

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("Ignoring invalid boolean setting", "key", key, "value", v)
		return fallback
	}
	return b
}
