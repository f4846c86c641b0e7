package session

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// CookieName is the name of the signed cookie that persists the session.
const CookieName = "authportal-session"

const contextKey = "session.store"

// NewCookieStore builds the signed cookie store shared by the session and the
// flash messages. Cookies are HttpOnly and SameSite=Lax; Secure is only set
// when the portal is served over TLS.
func NewCookieStore(secret string, maxAgeDays int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * maxAgeDays,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CookieStore is a Store backed by a gorilla/sessions cookie, bound to a
// single request/response pair. Writes are persisted immediately so that the
// Set-Cookie header is in place before any redirect is issued.
type CookieStore struct {
	mu   sync.Mutex
	sess *sessions.Session
	req  *http.Request
	res  http.ResponseWriter
}

// Open loads the session cookie for the current request. A cookie that fails
// to decode yields an empty session rather than an error.
func Open(c echo.Context) (*CookieStore, error) {
	sess, err := echosession.Get(CookieName, c)
	if sess == nil {
		return nil, err
	}
	if err != nil {
		slog.Warn("Session cookie could not be decoded, starting fresh", "error", err)
	}
	return &CookieStore{sess: sess, req: c.Request(), res: c.Response()}, nil
}

func (s *CookieStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sess.Values[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *CookieStore) Set(key, value string) error {
	return s.SetAll(map[string]string{key: value})
}

// SetAll writes every value and persists the cookie once.
func (s *CookieStore) SetAll(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.sess.Values[k] = v
	}
	return s.sess.Save(s.req, s.res)
}

func (s *CookieStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sess.Values, KeyToken)
	delete(s.sess.Values, KeyUser)
	return s.sess.Save(s.req, s.res)
}

// Bind is a middleware that opens the request's session once and makes it
// available to downstream handlers through Current. It must run after the
// echo-contrib session middleware.
func Bind() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, err := Open(c)
			if err != nil {
				return err
			}
			Attach(c, store)
			return next(c)
		}
	}
}

// Attach places a Store in the echo context.
func Attach(c echo.Context, s Store) {
	c.Set(contextKey, s)
}

// Current returns the Store bound to the request. When Bind has not run it
// falls back to opening the cookie directly.
func Current(c echo.Context) Store {
	if s, ok := c.Get(contextKey).(Store); ok {
		return s
	}
	store, err := Open(c)
	if err != nil {
		slog.Error("No session store available for request", "error", err)
		mem := NewMemoryStore()
		Attach(c, mem)
		return mem
	}
	Attach(c, store)
	return store
}
