package testutils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/domain"
)

// fakeAPISigningKey signs the tokens the fake API issues.
var fakeAPISigningKey = []byte("fake-api-signing-key")

// RecordedRequest is one call the fake API received.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
}

type fakeAccount struct {
	user      domain.UserSummary
	password  string
	createdAt time.Time
}

// FakeAPI is an in-process stand-in for the remote user-account API. It
// issues real HS256 tokens, records every request and can be told to fail
// any endpoint with a fixed status.
type FakeAPI struct {
	Server *httptest.Server

	mu        sync.Mutex
	accounts  map[string]*fakeAccount
	nextID    int
	requests  []RecordedRequest
	overrides map[string]int
}

// NewFakeAPI starts a fake API that is shut down when t finishes.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		accounts:  make(map[string]*fakeAccount),
		overrides: make(map[string]int),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(f.record)

	api := e.Group("/api")
	api.POST("/auth/login", f.login)
	api.POST("/auth/signup", f.signup)
	api.GET("/auth/google", f.google)
	api.POST("/auth/complete-profile", f.completeProfile, f.authenticate)

	users := api.Group("/users", f.authenticate)
	users.GET("/profile", f.profile)
	users.PUT("/profile", f.updateProfile)
	users.POST("/change-password", f.changePassword)
	users.GET("/analytics/overview", f.overview)
	users.GET("/analytics/gender", f.gender)
	users.GET("/analytics/age", f.age)
	users.GET("/analytics/trends", f.trends)
	users.GET("/analytics/recent", f.recent)
	users.GET("", f.list)
	users.GET("/:id", f.get)

	f.Server = httptest.NewServer(e)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API root to configure the gateway with.
func (f *FakeAPI) URL() string {
	return f.Server.URL + "/api"
}

// AddUser registers an account directly and returns its stored summary.
// An empty password models a Google account that never set one.
func (f *FakeAPI) AddUser(u domain.UserSummary, password string) domain.UserSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(u, password)
}

func (f *FakeAPI) addLocked(u domain.UserSummary, password string) domain.UserSummary {
	f.nextID++
	u.ID = strconv.Itoa(f.nextID)
	if u.Provider == "" {
		u.Provider = domain.ProviderCredentials
	}
	u.HasPassword = password != ""
	f.accounts[u.ID] = &fakeAccount{user: u, password: password, createdAt: time.Now().UTC().Truncate(time.Second)}
	return u
}

// Token mints a valid bearer token for userID.
func (f *FakeAPI) Token(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(fakeAPISigningKey)
	if err != nil {
		panic(fmt.Sprintf("failed to sign fake token: %v", err))
	}
	return signed
}

// Fail makes every request to endpoint (relative to the API root, e.g.
// "/users") answer with status.
func (f *FakeAPI) Fail(endpoint string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides["/api"+endpoint] = status
}

// Requests returns a copy of everything received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsTo returns the recorded requests whose path is endpoint.
func (f *FakeAPI) RequestsTo(endpoint string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Path == "/api"+endpoint {
			out = append(out, r)
		}
	}
	return out
}

// User returns the stored account for id.
func (f *FakeAPI) User(id string) (domain.UserSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[id]
	if !ok {
		return domain.UserSummary{}, false
	}
	return acc.user, true
}

func (f *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        req.Method,
			Path:          req.URL.Path,
			Authorization: req.Header.Get("Authorization"),
			ContentType:   req.Header.Get("Content-Type"),
		})
		status, forced := f.overrides[req.URL.Path]
		f.mu.Unlock()

		if forced {
			return c.JSON(status, echo.Map{"error": http.StatusText(status)})
		}
		return next(c)
	}
}

func (f *FakeAPI) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return fakeAPISigningKey, nil
		})
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
		}

		f.mu.Lock()
		_, ok := f.accounts[claims.Subject]
		f.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Account no longer exists"})
		}

		c.Set("uid", claims.Subject)
		return next(c)
	}
}

func (f *FakeAPI) current(c echo.Context) *fakeAccount {
	return f.accounts[c.Get("uid").(string)]
}

func (f *FakeAPI) login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		if acc.user.Email == in.Email && acc.password != "" && acc.password == in.Password {
			return c.JSON(http.StatusOK, echo.Map{"token": f.Token(acc.user.ID), "user": acc.user})
		}
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
}

func (f *FakeAPI) signup(c echo.Context) error {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		if acc.user.Email == in.Email {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "User already exists"})
		}
	}
	u := f.addLocked(domain.UserSummary{Name: in.Name, Email: in.Email}, in.Password)
	return c.JSON(http.StatusCreated, echo.Map{"token": f.Token(u.ID), "user": u})
}

func (f *FakeAPI) google(c echo.Context) error {
	return c.String(http.StatusOK, "google consent screen")
}

func (f *FakeAPI) completeProfile(c echo.Context) error {
	var in struct {
		Age      int    `json:"age"`
		Gender   string `json:"gender"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	acc := f.current(c)
	acc.user.Age = in.Age
	acc.user.Gender = in.Gender
	if in.Password != "" {
		acc.password = in.Password
		acc.user.HasPassword = true
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile completed", "user": acc.user})
}

func (f *FakeAPI) profile(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// A bare user, the other shape the API is known to send.
	return c.JSON(http.StatusOK, f.current(c).user)
}

func (f *FakeAPI) updateProfile(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := f.current(c)

	if name := c.FormValue("name"); name != "" {
		acc.user.Name = name
	}
	if age, err := strconv.Atoi(c.FormValue("age")); err == nil {
		acc.user.Age = age
	}
	if gender := c.FormValue("gender"); gender != "" {
		acc.user.Gender = gender
	}
	if fh, err := c.FormFile("profilePicture"); err == nil {
		file, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unreadable upload"})
		}
		defer file.Close()
		if _, err := io.Copy(io.Discard, file); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unreadable upload"})
		}
		acc.user.ProfilePicture = "/uploads/" + fh.Filename
	}
	return c.JSON(http.StatusOK, echo.Map{"user": acc.user})
}

func (f *FakeAPI) changePassword(c echo.Context) error {
	var in struct {
		CurrentPassword *string `json:"currentPassword"`
		NewPassword     string  `json:"newPassword"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	acc := f.current(c)
	if acc.password != "" {
		if in.CurrentPassword == nil || *in.CurrentPassword != acc.password {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Current password is incorrect"})
		}
	}
	acc.password = in.NewPassword
	acc.user.HasPassword = true
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully!"})
}

func (f *FakeAPI) records() []domain.UserRecord {
	out := make([]domain.UserRecord, 0, len(f.accounts))
	for i := 1; i <= f.nextID; i++ {
		if acc, ok := f.accounts[strconv.Itoa(i)]; ok {
			out = append(out, domain.UserRecord{UserSummary: acc.user, CreatedAt: acc.createdAt})
		}
	}
	return out
}

func (f *FakeAPI) list(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"users": f.records()})
}

func (f *FakeAPI) get(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": domain.UserRecord{UserSummary: acc.user, CreatedAt: acc.createdAt}})
}

func (f *FakeAPI) overview(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.accounts)
	return c.JSON(http.StatusOK, domain.Overview{TotalUsers: n, NewUsers: n, WeeklyUsers: n, TodayUsers: n})
}

func (f *FakeAPI) gender(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	var order []string
	for _, r := range f.records() {
		g := r.Gender
		if g == "" {
			g = "unspecified"
		}
		if counts[g] == 0 {
			order = append(order, g)
		}
		counts[g]++
	}
	out := make([]domain.GenderCount, 0, len(order))
	for _, g := range order {
		out = append(out, domain.GenderCount{Gender: g, Count: counts[g]})
	}
	return c.JSON(http.StatusOK, out)
}

func (f *FakeAPI) age(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	buckets := []domain.AgeBucket{{AgeRange: "13-17"}, {AgeRange: "18-24"}, {AgeRange: "25-34"}, {AgeRange: "35-44"}, {AgeRange: "45+"}}
	for _, r := range f.records() {
		switch {
		case r.Age == 0:
		case r.Age < 18:
			buckets[0].Count++
		case r.Age < 25:
			buckets[1].Count++
		case r.Age < 35:
			buckets[2].Count++
		case r.Age < 45:
			buckets[3].Count++
		default:
			buckets[4].Count++
		}
	}
	return c.JSON(http.StatusOK, buckets)
}

func (f *FakeAPI) trends(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, []domain.TrendPoint{{Date: time.Now().UTC().Format("2006-01-02"), Count: len(f.accounts)}})
}

func (f *FakeAPI) recent(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs := f.records()
	// Newest first.
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return c.JSON(http.StatusOK, recs)
}
