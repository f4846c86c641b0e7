package session_test

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// serve runs handler behind the session middlewares and returns the recorder.
func serve(t *testing.T, cookies []*http.Cookie, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(echosession.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.Use(session.Bind())
	e.GET("/", handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// lastSessionCookie returns the final Set-Cookie for the session, which is
// the one a browser keeps.
func lastSessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var last *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			last = c
		}
	}
	return last
}

func TestCookieStore_PersistsAcrossRequests(t *testing.T) {
	rec := serve(t, nil, func(c echo.Context) error {
		s := session.Current(c)
		require.NoError(t, s.Set(session.KeyToken, "abc"))
		require.NoError(t, s.Set(session.KeyUser, validUser))
		return c.NoContent(http.StatusOK)
	})
	cookie := lastSessionCookie(rec)
	require.NotNil(t, cookie, "writing to the store must emit the session cookie")

	var st session.State
	serve(t, []*http.Cookie{cookie}, func(c echo.Context) error {
		st = session.Read(session.Current(c))
		return c.NoContent(http.StatusOK)
	})

	assert.True(t, st.Authenticated)
	assert.Equal(t, "1", st.User.ID)
}

func TestCookieStore_ClearRemovesBothKeys(t *testing.T) {
	rec := serve(t, nil, func(c echo.Context) error {
		s := session.Current(c)
		require.NoError(t, s.Set(session.KeyToken, "abc"))
		require.NoError(t, s.Set(session.KeyUser, validUser))
		return c.NoContent(http.StatusOK)
	})

	rec = serve(t, []*http.Cookie{lastSessionCookie(rec)}, func(c echo.Context) error {
		return session.Current(c).Clear()
	})

	var token, user bool
	serve(t, []*http.Cookie{lastSessionCookie(rec)}, func(c echo.Context) error {
		s := session.Current(c)
		_, token = s.Get(session.KeyToken)
		_, user = s.Get(session.KeyUser)
		return nil
	})
	assert.False(t, token)
	assert.False(t, user)
}

func TestNewCookieStore_KeptByPlainHTTPClient(t *testing.T) {
	e := echo.New()
	e.Use(echosession.Middleware(session.NewCookieStore(testSessionSecret, 7, false)))
	e.Use(session.Bind())
	e.GET("/login", func(c echo.Context) error {
		if err := session.Current(c).SetAll(map[string]string{session.KeyToken: "abc", session.KeyUser: validUser}); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})
	var st session.State
	e.GET("/whoami", func(c echo.Context) error {
		st = session.Read(session.Current(c))
		return c.NoContent(http.StatusOK)
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	res, err := client.Get(srv.URL + "/login")
	require.NoError(t, err)
	res.Body.Close()

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7*86400, cookie.MaxAge)

	res, err = client.Get(srv.URL + "/whoami")
	require.NoError(t, err)
	res.Body.Close()
	assert.True(t, st.Authenticated, "the jar must send the session back over http")
}

func TestCookieStore_SaveWritesOneCookie(t *testing.T) {
	rec := serve(t, nil, func(c echo.Context) error {
		if err := session.Save(session.Current(c), "abc", &domain.UserSummary{ID: "1", Name: "A", Email: "a@x.com"}); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})

	var n int
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			n++
		}
	}
	assert.Equal(t, 1, n, "token and user are persisted in a single Set-Cookie")

	var st session.State
	serve(t, []*http.Cookie{lastSessionCookie(rec)}, func(c echo.Context) error {
		st = session.Read(session.Current(c))
		return nil
	})
	assert.True(t, st.Authenticated)
}

func TestCookieStore_TamperedCookieIsEmpty(t *testing.T) {
	tampered := &http.Cookie{Name: session.CookieName, Value: "definitely-not-signed"}

	var st session.State
	rec := serve(t, []*http.Cookie{tampered}, func(c echo.Context) error {
		st = session.Read(session.Current(c))
		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, st.Authenticated)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	got, ok := session.TokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = session.TokenExpiry("abc")
	assert.False(t, ok, "opaque tokens carry no expiry")

	_, ok = session.TokenExpiry("")
	assert.False(t, ok)
}
