package testutils

import (
	"testing"

	"github.com/nfrund/authportal/internal/config"
	"github.com/nfrund/authportal/internal/logging"
)

// TestSessionSecret signs cookies in tests. It satisfies the 32 byte minimum.
const TestSessionSecret = "a-very-secret-key-for-testing-!!"

// ConfigForTests sets a complete test environment and returns a valid
// config.Provider pointing at apiURL.
func ConfigForTests(t *testing.T, apiURL string) config.Provider {
	t.Helper()

	env := map[string]string{
		"APP_ADDR":             ":0",
		"API_URL":              apiURL,
		"SESSION_SECRET":       TestSessionSecret,
		"SESSION_MAX_AGE_DAYS": "7",
		"COOKIE_SECURE":        "false",
		"LOG_FORMAT":           "text",
		"LOG_LEVEL":            "error",
	}
	// t.Setenv restores the previous values when the test ends.
	for key, value := range env {
		t.Setenv(key, value)
	}

	logging.New("text", "error")

	return config.FromEnv()
}
