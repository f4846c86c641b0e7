package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(original) })
	return &buf
}

func TestLogger(t *testing.T) {
	logs := captureLogs(t)

	e := echo.New()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return "req-123" },
	}))
	e.Use(Logger)
	e.GET("/users", func(c echo.Context) error {
		FromContext(c.Request().Context()).Info("inside handler")
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	out := logs.String()
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, "request_id=req-123")
	assert.Contains(t, out, "path=/users")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestAccessLog(t *testing.T) {
	logs := captureLogs(t)

	e := echo.New()
	e.Use(Logger)
	e.Use(AccessLog())
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/missing", func(c echo.Context) error { return echo.ErrNotFound })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	out := logs.String()
	assert.Contains(t, out, `msg="Request completed"`)
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, `msg="Request failed"`)
	assert.Contains(t, out, "status=404")
}
