// Package handlers contains the page handlers. Each one reads the session,
// calls the remote API through a Gateway and renders a gomponents page.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/rendering"
	"github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/internal/view"
	"github.com/nfrund/authportal/web/src/templates/layouts"
	cmp "maragu.dev/gomponents"
)

// CSRFContextKey is where the CSRF middleware leaves the token.
const CSRFContextKey = "csrf"

// Messages shown when the API cannot be reached or fails in a generic way.
const (
	NetworkErrorMessage = "Network error. Please try again."
	GenericErrorMessage = "Something went wrong. Please try again."
)

// Gateway is the part of the remote API the handlers use.
// *apiclient.Client implements it.
type Gateway interface {
	BaseURL() string
	GoogleAuthURL() string

	Login(ctx context.Context, store session.Store, creds apiclient.Credentials) (*apiclient.AuthResult, error)
	Signup(ctx context.Context, store session.Store, reg apiclient.Registration) (*apiclient.AuthResult, error)
	CompleteProfile(ctx context.Context, store session.Store, in apiclient.ProfileCompletion) (*domain.UserSummary, error)
	Profile(ctx context.Context, store session.Store) (*domain.UserSummary, error)
	UpdateProfile(ctx context.Context, store session.Store, in apiclient.ProfileUpdate) (*domain.UserSummary, error)
	ChangePassword(ctx context.Context, store session.Store, in apiclient.PasswordChange) (string, error)
	Users(ctx context.Context, store session.Store) ([]domain.UserRecord, error)
	User(ctx context.Context, store session.Store, id string) (*domain.UserRecord, error)

	AnalyticsOverview(ctx context.Context, store session.Store) (domain.Overview, error)
	AnalyticsGender(ctx context.Context, store session.Store) ([]domain.GenderCount, error)
	AnalyticsAge(ctx context.Context, store session.Store) ([]domain.AgeBucket, error)
	AnalyticsTrends(ctx context.Context, store session.Store) ([]domain.TrendPoint, error)
	AnalyticsRecent(ctx context.Context, store session.Store) ([]domain.UserRecord, error)
}

var _ Gateway = (*apiclient.Client)(nil)

// pages bundles the rendering helpers shared by every handler.
type pages struct {
	renderer rendering.Renderer
}

// app renders content inside the signed-in layout.
func (p pages) app(c echo.Context, status int, title string, user *domain.UserSummary, content cmp.Node) error {
	nav := layouts.Nav{Path: c.Request().URL.Path, User: user, CSRF: csrfToken(c)}
	page := layouts.App(title, nav, view.GetFlashData(c), content)
	return p.renderer.RenderPage(c, status, view.AdaptGomponentToTempl(page))
}

// public renders content inside the anonymous layout.
func (p pages) public(c echo.Context, status int, title string, content cmp.Node) error {
	page := layouts.Public(title, view.GetFlashData(c), content)
	return p.renderer.RenderPage(c, status, view.AdaptGomponentToTempl(page))
}

// fragment renders a bare node for an htmx swap.
func (p pages) fragment(c echo.Context, node cmp.Node) error {
	return p.renderer.RenderPage(c, http.StatusOK, node)
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}

// failureMessage is the banner text for a failed API call. unauthorized is
// used when the API rejected the credentials.
func failureMessage(err error, unauthorized string) string {
	switch apiclient.Classify(err) {
	case apiclient.KindUnauthorized:
		return unauthorized
	case apiclient.KindNetwork:
		return NetworkErrorMessage
	}
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	return GenericErrorMessage
}

// failureStatus picks the status a re-rendered form is sent with.
func failureStatus(err error) int {
	switch apiclient.Classify(err) {
	case apiclient.KindUnauthorized:
		return http.StatusUnauthorized
	case apiclient.KindNetwork:
		return http.StatusBadGateway
	}
	if s := apiclient.Status(err); s >= 400 && s < 500 {
		return s
	}
	return http.StatusBadGateway
}

// isUnauthorized reports whether err should end the session. The gateway has
// already cleared the store by then.
func isUnauthorized(err error) bool {
	return errors.Is(err, apiclient.ErrUnauthorized)
}
