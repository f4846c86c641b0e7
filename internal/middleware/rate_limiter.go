package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/authportal/internal/view"
	"golang.org/x/time/rate"
)

// RateLimitMessage is flashed when a client exceeds its attempt budget.
const RateLimitMessage = "Too many attempts. Please wait a minute and try again."

// RateLimiter limits credential submissions to perMinute per client IP, with
// the whole budget available as a burst. A limited form post is sent back to
// its page with a flash instead of a bare 429 body.
func RateLimiter(perMinute int) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(perMinute) / 60),
			Burst:     perMinute,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "client", identifier)
			view.SetFlashError(c, RateLimitMessage)
			return c.Redirect(http.StatusSeeOther, c.Request().URL.Path)
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
