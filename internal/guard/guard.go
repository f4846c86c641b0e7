// Package guard decides, per request, whether a page may render or the
// browser has to be sent elsewhere. It is a convenience gate for the UI; the
// remote API authorizes every call on its own.
package guard

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/web/src/templates/partials"
	htmx "maragu.dev/gomponents-htmx/http"
)

// Mode is the requirement a page declares.
type Mode int

const (
	// RequireAuth pages render only for a signed-in caller.
	RequireAuth Mode = iota + 1
	// RequireAnonymous pages render only for a signed-out caller.
	RequireAnonymous
)

func (m Mode) String() string {
	switch m {
	case RequireAuth:
		return "RequireAuth"
	case RequireAnonymous:
		return "RequireAnonymous"
	default:
		return "Public"
	}
}

// Phase is the guard's position in its state machine.
type Phase int

const (
	Checking Phase = iota
	Allowed
	Redirecting
)

func (p Phase) String() string {
	switch p {
	case Allowed:
		return "Allowed"
	case Redirecting:
		return "Redirecting"
	default:
		return "Checking"
	}
}

// Redirect targets.
const (
	SignInPath  = "/signin"
	ProfilePath = "/profile"
)

// Decision is the outcome of evaluating a mode against a session state.
type Decision struct {
	Phase  Phase
	Target string
}

// Evaluate moves a guard out of Checking.
func Evaluate(mode Mode, st session.State) Decision {
	switch {
	case mode == RequireAuth && !st.Authenticated:
		return Decision{Phase: Redirecting, Target: SignInPath}
	case mode == RequireAnonymous && st.Authenticated:
		return Decision{Phase: Redirecting, Target: ProfilePath}
	default:
		return Decision{Phase: Allowed}
	}
}

const stateKey = "guard.state"

// Require returns middleware that gates a route on mode. It runs on every
// request, so an expired session is caught on the next navigation.
func Require(mode Mode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := session.Read(session.Current(c))
			d := Evaluate(mode, st)

			if d.Phase == Redirecting {
				slog.Debug("Route guard redirecting",
					"mode", mode.String(), "path", c.Request().URL.Path, "target", d.Target)
				return Redirect(c, d.Target)
			}

			c.Set(stateKey, st)
			return next(c)
		}
	}
}

// StateFrom returns the session state recorded by the guard, reading the
// session directly for unguarded routes.
func StateFrom(c echo.Context) session.State {
	if st, ok := c.Get(stateKey).(session.State); ok {
		return st
	}
	st := session.Read(session.Current(c))
	c.Set(stateKey, st)
	return st
}

// Redirect navigates the browser to target. The body is only the loading
// indicator. htmx requests get an HX-Redirect so the whole page navigates
// instead of swapping the fragment.
func Redirect(c echo.Context, target string) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	res.Header().Set(echo.HeaderCacheControl, "no-store")

	status := http.StatusSeeOther
	if htmx.IsRequest(c.Request().Header) {
		htmx.SetRedirect(res.Header(), target)
		status = http.StatusOK
	} else {
		res.Header().Set(echo.HeaderLocation, target)
	}

	res.WriteHeader(status)
	return partials.Loading().Render(res)
}
