package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/handlers"
	"github.com/nfrund/authportal/internal/rendering"
	"github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/internal/testutils"
	"github.com/stretchr/testify/require"
)

// testApp is the portal wired against a fake API and driven by a browser-like
// client that keeps cookies and does not follow redirects.
type testApp struct {
	t      *testing.T
	api    *testutils.FakeAPI
	srv    *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	api := testutils.NewFakeAPI(t)
	app := newTestAppWithGateway(t, apiclient.New(api.URL()))
	app.api = api
	return app
}

func newTestAppWithGateway(t *testing.T, gw handlers.Gateway) *testApp {
	t.Helper()
	testutils.ConfigForTests(t, gw.BaseURL())

	r := rendering.NewUniversalRenderer()
	home := handlers.NewHomeHandler(r)
	auth := handlers.NewAuthHandler(gw, r)
	profile := handlers.NewProfileHandler(gw, r)
	users := handlers.NewUsersHandler(gw, r)
	dashboard := handlers.NewDashboardHandler(gw, r)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(echosession.Middleware(session.NewCookieStore(testutils.TestSessionSecret, 1, false)))
	e.Use(session.Bind())

	anon := guard.Require(guard.RequireAnonymous)
	authed := guard.Require(guard.RequireAuth)

	e.GET("/", home.HomeGet)
	e.GET("/signin", auth.SignInGet, anon)
	e.POST("/signin", auth.SignInPost, anon)
	e.GET("/signup", auth.SignUpGet, anon)
	e.POST("/signup", auth.SignUpPost, anon)
	e.GET("/auth/google", auth.GoogleRedirect)
	e.POST("/logout", auth.Logout)
	e.GET("/complete-profile", profile.CompleteProfileGet, handlers.AdoptSession, authed)
	e.POST("/complete-profile", profile.CompleteProfilePost, authed)
	e.GET("/profile", profile.ProfileGet, authed)
	e.POST("/profile", profile.ProfilePost, authed)
	e.POST("/profile/password", profile.PasswordPost, authed)
	e.GET("/users", users.UsersGet, authed)
	e.GET("/users/:id", users.UserGet, authed)
	e.GET("/dashboard", dashboard.DashboardGet, authed)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{t: t, srv: srv, client: client}
}

// response is a fully read reply.
type response struct {
	Code     int
	Header   http.Header
	Body     string
	Location string
}

func (a *testApp) do(req *http.Request) response {
	a.t.Helper()
	res, err := a.client.Do(req)
	require.NoError(a.t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(a.t, err)
	return response{Code: res.StatusCode, Header: res.Header, Body: string(body), Location: res.Header.Get("Location")}
}

func (a *testApp) get(path string, header ...string) response {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.srv.URL+path, nil)
	require.NoError(a.t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return a.do(req)
}

func (a *testApp) post(path string, form url.Values) response {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(a.t, err)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.do(req)
}

// upload is one file part of a multipart submission.
type upload struct {
	Field, Filename, ContentType string
	Data                         []byte
}

func (a *testApp) postMultipart(path string, fields map[string]string, files ...upload) response {
	a.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.Field+`"; filename="`+f.Filename+`"`)
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		require.NoError(a.t, err)
		_, err = part.Write(f.Data)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, w.Close())

	req, err := http.NewRequest(http.MethodPost, a.srv.URL+path, &body)
	require.NoError(a.t, err)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return a.do(req)
}

// signIn registers a complete credentials account and signs it in.
func (a *testApp) signIn(name, email string) domain.UserSummary {
	a.t.Helper()
	u := a.api.AddUser(domain.UserSummary{Name: name, Email: email, Age: 30, Gender: "female"}, "secret123")
	res := a.post("/signin", url.Values{"email": {email}, "password": {"secret123"}})
	require.Equal(a.t, http.StatusSeeOther, res.Code, res.Body)
	require.Equal(a.t, "/profile", res.Location)
	return u
}
