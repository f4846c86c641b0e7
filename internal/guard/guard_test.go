package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const protectedContent = "protected profile content"

func TestEvaluate(t *testing.T) {
	signedIn := session.State{Authenticated: true, User: &domain.UserSummary{ID: "1"}}

	tests := []struct {
		name  string
		mode  guard.Mode
		state session.State
		want  guard.Decision
	}{
		{"auth required, anonymous", guard.RequireAuth, session.Anonymous, guard.Decision{Phase: guard.Redirecting, Target: "/signin"}},
		{"auth required, signed in", guard.RequireAuth, signedIn, guard.Decision{Phase: guard.Allowed}},
		{"anonymous required, signed in", guard.RequireAnonymous, signedIn, guard.Decision{Phase: guard.Redirecting, Target: "/profile"}},
		{"anonymous required, anonymous", guard.RequireAnonymous, session.Anonymous, guard.Decision{Phase: guard.Allowed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Evaluate(tt.mode, tt.state))
		})
	}
}

// newGuardedEcho mounts a guarded /profile and /signin behind a fixed store.
func newGuardedEcho(store session.Store) *echo.Echo {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session.Attach(c, store)
			return next(c)
		}
	})
	e.GET("/profile", func(c echo.Context) error {
		st := guard.StateFrom(c)
		return c.String(http.StatusOK, protectedContent+" for "+st.User.Name)
	}, guard.Require(guard.RequireAuth))
	e.GET("/signin", func(c echo.Context) error {
		return c.String(http.StatusOK, "sign in form")
	}, guard.Require(guard.RequireAnonymous))
	return e
}

func validStore(t *testing.T) *session.MemoryStore {
	t.Helper()
	s := session.NewMemoryStore()
	require.NoError(t, s.Set(session.KeyToken, "abc"))
	require.NoError(t, s.Set(session.KeyUser, `{"id":"1","name":"A","email":"a@x.com","provider":"credentials"}`))
	return s
}

func get(e *echo.Echo, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequire_ValidSessionRendersProfile(t *testing.T) {
	e := newGuardedEcho(validStore(t))

	rec := get(e, "/profile", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), protectedContent+" for A")
}

func TestRequire_NoSessionRedirectsToSignIn(t *testing.T) {
	e := newGuardedEcho(session.NewMemoryStore())

	rec := get(e, "/profile", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get(echo.HeaderLocation))
	assert.NotContains(t, rec.Body.String(), protectedContent)
	assert.Contains(t, rec.Body.String(), "Loading...")
}

func TestRequire_CorruptSessionRedirectsAndHeals(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(session.KeyToken, "abc"))
	require.NoError(t, store.Set(session.KeyUser, "{not json"))
	e := newGuardedEcho(store)

	rec := get(e, "/profile", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get(echo.HeaderLocation))
	assert.Zero(t, store.Len())
}

func TestRequire_AnonymousRouteRedirectsSignedInUser(t *testing.T) {
	e := newGuardedEcho(validStore(t))

	rec := get(e, "/signin", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get(echo.HeaderLocation))
	assert.NotContains(t, rec.Body.String(), "sign in form")
}

func TestRequire_AnonymousRouteAllowsVisitor(t *testing.T) {
	e := newGuardedEcho(session.NewMemoryStore())

	rec := get(e, "/signin", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sign in form", rec.Body.String())
}

func TestRequire_HtmxRequestGetsHXRedirect(t *testing.T) {
	e := newGuardedEcho(session.NewMemoryStore())

	rec := get(e, "/profile", map[string]string{"HX-Request": "true"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("HX-Redirect"))
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
	assert.NotContains(t, rec.Body.String(), protectedContent)
}

func TestRequire_RerunsOnEveryNavigation(t *testing.T) {
	store := validStore(t)
	e := newGuardedEcho(store)

	require.Equal(t, http.StatusOK, get(e, "/profile", nil).Code)

	// The session disappears mid-lifetime, e.g. wiped by another request.
	require.NoError(t, store.Clear())

	rec := get(e, "/profile", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get(echo.HeaderLocation))
}
