package session

import (
	"encoding/json"
	"log/slog"

	"github.com/nfrund/authportal/internal/domain"
)

// State is the classification of the current caller.
type State struct {
	Authenticated bool
	User          *domain.UserSummary
}

// Anonymous is the unauthenticated State.
var Anonymous = State{}

// Read classifies the caller from the stored session values. It never fails:
// a half-present or corrupt session is discarded and reported as anonymous.
func Read(s Store) State {
	_, hasToken := s.Get(KeyToken)
	raw, hasUser := s.Get(KeyUser)

	switch {
	case !hasToken && !hasUser:
		return Anonymous
	case !hasToken || !hasUser:
		discard(s, "half session")
		return Anonymous
	}

	user, err := decodeUser(raw)
	if err != nil {
		discard(s, err.Error())
		return Anonymous
	}
	return State{Authenticated: true, User: user}
}

// decodeUser recovers from panics in custom decoders so that Read stays total.
func decodeUser(raw string) (user *domain.UserSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			user, err = nil, domain.ErrInvalidSession
		}
	}()
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidSession
	}
	return user, nil
}

func discard(s Store, reason string) {
	slog.Warn("Discarding invalid session", "reason", reason)
	if err := s.Clear(); err != nil {
		slog.Error("Failed to clear invalid session", "error", err)
	}
}
