package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!!"))))

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	e.POST("/signin", handler, RateLimiter(3))

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/signin", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("allows requests within the limit", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post("192.0.2.1:1234").Code)
	})

	t.Run("sends the client back once the budget is spent", func(t *testing.T) {
		clientIP := "192.0.2.2:1234"
		for i := 0; i < 3; i++ {
			require.Equal(t, http.StatusOK, post(clientIP).Code, "request %d should be allowed", i+1)
		}

		rec := post(clientIP)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signin", rec.Header().Get(echo.HeaderLocation))
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "flash-session=")
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post("192.0.2.3:1234").Code)
	})
}
