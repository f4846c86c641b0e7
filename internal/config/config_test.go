package config_test

import (
	"testing"

	"github.com/nfrund/authportal/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("API_URL", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SESSION_MAX_AGE_DAYS", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg := config.FromEnv()

	assert.Equal(t, ":8080", cfg.GetAddr())
	assert.Equal(t, "http://localhost:5000/api", cfg.GetAPIBaseURL())
	assert.NotEmpty(t, cfg.GetSessionSecret(), "a development secret is used when none is configured")
	assert.Equal(t, 7, cfg.GetSessionMaxAgeDays())
	assert.False(t, cfg.GetCookieSecure())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9000")
	t.Setenv("API_URL", "https://api.example.com/api/")
	t.Setenv("SESSION_SECRET", "s3cret-s3cret-s3cret-s3cret-s3cret")
	t.Setenv("SESSION_MAX_AGE_DAYS", "2")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("LOG_FORMAT", "json")

	cfg := config.FromEnv()

	assert.Equal(t, ":9000", cfg.GetAddr())
	assert.Equal(t, "https://api.example.com/api", cfg.GetAPIBaseURL(), "trailing slash is trimmed")
	assert.Equal(t, "s3cret-s3cret-s3cret-s3cret-s3cret", cfg.GetSessionSecret())
	assert.Equal(t, 2, cfg.GetSessionMaxAgeDays())
	assert.True(t, cfg.GetCookieSecure())
	assert.Equal(t, "json", cfg.GetLogFormat())
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_MAX_AGE_DAYS", "-3")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := config.FromEnv()

	assert.Equal(t, 7, cfg.GetSessionMaxAgeDays())
	assert.False(t, cfg.GetCookieSecure())
}
