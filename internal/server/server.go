package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/config"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/handlers"
	appmiddleware "github.com/nfrund/authportal/internal/middleware"
	"github.com/nfrund/authportal/internal/rendering"
	portalsession "github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/internal/view"
	"github.com/nfrund/authportal/web"
	"github.com/nfrund/authportal/web/src/templates/layouts"
	"github.com/nfrund/authportal/web/src/templates/pages"
)

// SessionExpiredMessage is flashed when the API rejects the session token.
const SessionExpiredMessage = "Session expired. Please log in again."

// credentialAttemptsPerMinute bounds sign-in and sign-up posts per client.
const credentialAttemptsPerMinute = 10

// Dependencies holds everything the server needs from the outside.
type Dependencies struct {
	Config   config.Provider
	Gateway  handlers.Gateway
	Renderer rendering.Renderer
	Echo     *echo.Echo
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	Cfg config.Provider

	homeHandler      *handlers.HomeHandler
	authHandler      *handlers.AuthHandler
	profileHandler   *handlers.ProfileHandler
	usersHandler     *handlers.UsersHandler
	dashboardHandler *handlers.DashboardHandler
}

// New creates a new Server with its middleware stack in place. Routes are
// added by RegisterRoutes.
func New(deps Dependencies) (*Server, error) {
	switch {
	case deps.Config == nil:
		return nil, errors.New("server: config is required")
	case deps.Gateway == nil:
		return nil, errors.New("server: API gateway is required")
	case deps.Renderer == nil:
		return nil, errors.New("server: renderer is required")
	case deps.Echo == nil:
		return nil, errors.New("server: echo instance is required")
	}

	s := &Server{
		E:                deps.Echo,
		Cfg:              deps.Config,
		homeHandler:      handlers.NewHomeHandler(deps.Renderer),
		authHandler:      handlers.NewAuthHandler(deps.Gateway, deps.Renderer),
		profileHandler:   handlers.NewProfileHandler(deps.Gateway, deps.Renderer),
		usersHandler:     handlers.NewUsersHandler(deps.Gateway, deps.Renderer),
		dashboardHandler: handlers.NewDashboardHandler(deps.Gateway, deps.Renderer),
	}

	s.E.HideBanner = true
	if r, ok := deps.Renderer.(echo.Renderer); ok {
		s.E.Renderer = r
	}
	s.E.Validator = handlers.NewValidator()
	setupErrorHandling(s.E)
	s.setupMiddleware()

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.E.Use(middleware.Recover())
	s.E.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.E.Use(appmiddleware.Logger)
	s.E.Use(appmiddleware.AccessLog())

	store := portalsession.NewCookieStore(s.Cfg.GetSessionSecret(), s.Cfg.GetSessionMaxAgeDays(), s.Cfg.GetCookieSecure())
	s.E.Use(session.Middleware(store))
	s.E.Use(portalsession.Bind())

	s.E.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		ContextKey:     handlers.CSRFContextKey,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   s.Cfg.GetCookieSecure(),
		CookieSameSite: http.SameSiteLaxMode,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
	}))
}

// setupErrorHandling installs the global error handler. An API rejection of
// the session token signs the user out; the gateway has already cleared the
// store by the time the error arrives here.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		logger := appmiddleware.FromContext(c.Request().Context())

		if errors.Is(err, context.Canceled) {
			logger.Debug("Client went away before the response was written", "error", err)
			return
		}

		if errors.Is(err, apiclient.ErrUnauthorized) {
			logger.Info("API rejected the session, signing out", "error", err)
			view.SetFlashError(c, SessionExpiredMessage)
			if rerr := guard.Redirect(c, guard.SignInPath); rerr != nil {
				logger.Error("Failed to write sign-out redirect", "error", rerr)
			}
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
			if code >= 500 {
				logger.Error("HTTP error", "status", code, "error", err)
			} else {
				logger.Debug("HTTP error", "status", code, "error", err)
			}
		} else {
			logger.Error("Internal Server Error (Unhandled)",
				"error", err,
				"stack_trace", string(debug.Stack()),
			)
		}

		if c.Request().Method == http.MethodHead {
			if werr := c.NoContent(code); werr != nil {
				logger.Error("Failed to write error response", "error", werr)
			}
			return
		}
		if werr := renderError(c, code, message); werr != nil {
			logger.Error("Failed to write error response", "error", werr)
		}
	}
}

func renderError(c echo.Context, code int, message string) error {
	var buf bytes.Buffer
	page := layouts.Public(http.StatusText(code), view.FlashData{}, pages.ErrorPage(code, message))
	if err := page.Render(&buf); err != nil {
		slog.Error("Failed to render error page", "error", err)
		return c.String(code, message)
	}
	return c.HTMLBlob(code, buf.Bytes())
}
