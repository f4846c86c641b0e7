package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/handlers"
	"github.com/nfrund/authportal/internal/middleware"
)

// Route describes one entry of the navigation surface.
type Route struct {
	Method string
	Path   string
	Mode   guard.Mode
	// Adopts marks routes that accept a session handed over in the query.
	Adopts bool
}

// Routes is the navigation surface. RegisterRoutes mounts exactly these.
var Routes = []Route{
	{Method: http.MethodGet, Path: "/"},
	{Method: http.MethodGet, Path: "/health"},
	{Method: http.MethodGet, Path: "/signin", Mode: guard.RequireAnonymous},
	{Method: http.MethodPost, Path: "/signin", Mode: guard.RequireAnonymous},
	{Method: http.MethodGet, Path: "/signup", Mode: guard.RequireAnonymous},
	{Method: http.MethodPost, Path: "/signup", Mode: guard.RequireAnonymous},
	{Method: http.MethodGet, Path: "/auth/google", Mode: guard.RequireAnonymous},
	{Method: http.MethodPost, Path: "/logout"},
	{Method: http.MethodGet, Path: "/complete-profile", Mode: guard.RequireAuth, Adopts: true},
	{Method: http.MethodPost, Path: "/complete-profile", Mode: guard.RequireAuth},
	{Method: http.MethodGet, Path: "/dashboard", Mode: guard.RequireAuth},
	{Method: http.MethodGet, Path: "/profile", Mode: guard.RequireAuth},
	{Method: http.MethodPost, Path: "/profile", Mode: guard.RequireAuth},
	{Method: http.MethodPost, Path: "/profile/password", Mode: guard.RequireAuth},
	{Method: http.MethodGet, Path: "/users", Mode: guard.RequireAuth},
	{Method: http.MethodGet, Path: "/users/:id", Mode: guard.RequireAuth},
}

// RegisterRoutes mounts every route in Routes with its guard.
func (s *Server) RegisterRoutes() {
	h := s.routeHandlers()
	limiter := middleware.RateLimiter(credentialAttemptsPerMinute)

	for _, r := range Routes {
		key := r.Method + " " + r.Path
		handler, ok := h[key]
		if !ok {
			panic("server: no handler for route " + key)
		}

		var mw []echo.MiddlewareFunc
		if r.Adopts {
			mw = append(mw, handlers.AdoptSession)
		}
		if r.Mode == guard.RequireAuth || r.Mode == guard.RequireAnonymous {
			mw = append(mw, guard.Require(r.Mode))
		}
		if r.Method == http.MethodPost && (r.Path == "/signin" || r.Path == "/signup") {
			mw = append(mw, limiter)
		}
		s.E.Add(r.Method, r.Path, handler, mw...)
	}
}

func (s *Server) routeHandlers() map[string]echo.HandlerFunc {
	return map[string]echo.HandlerFunc{
		"GET /":                  s.homeHandler.HomeGet,
		"GET /health":            health,
		"GET /signin":            s.authHandler.SignInGet,
		"POST /signin":           s.authHandler.SignInPost,
		"GET /signup":            s.authHandler.SignUpGet,
		"POST /signup":           s.authHandler.SignUpPost,
		"GET /auth/google":       s.authHandler.GoogleRedirect,
		"POST /logout":           s.authHandler.Logout,
		"GET /complete-profile":  s.profileHandler.CompleteProfileGet,
		"POST /complete-profile": s.profileHandler.CompleteProfilePost,
		"GET /dashboard":         s.dashboardHandler.DashboardGet,
		"GET /profile":           s.profileHandler.ProfileGet,
		"POST /profile":          s.profileHandler.ProfilePost,
		"POST /profile/password": s.profileHandler.PasswordPost,
		"GET /users":             s.usersHandler.UsersGet,
		"GET /users/:id":         s.usersHandler.UserGet,
	}
}

func health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
