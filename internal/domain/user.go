package domain

import (
	"encoding/json"
	"time"
)

// Provider identifies how an account authenticates with the remote API.
type Provider string

const (
	ProviderCredentials Provider = "credentials"
	ProviderGoogle      Provider = "google"
)

// UserSummary is the cached copy of the signed-in user kept in the session.
// It is owned by the session and replaced wholesale whenever the profile is re-fetched.
type UserSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Age            int      `json:"age,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	Provider       Provider `json:"provider,omitempty"`
	HasPassword    bool     `json:"hasPassword"`
}

// userWire mirrors the payload shapes the remote API sends. The API exposes a
// "password" field for some accounts; only its presence is kept.
type userWire struct {
	ID             json.RawMessage `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Age            *int            `json:"age"`
	Gender         *string         `json:"gender"`
	ProfilePicture *string         `json:"profilePicture"`
	Provider       Provider        `json:"provider"`
	Password       *string         `json:"password"`
	HasPassword    *bool           `json:"hasPassword"`
}

// UnmarshalJSON accepts both the stored form and the remote API form of a user.
func (u *UserSummary) UnmarshalJSON(data []byte) error {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}

	*u = UserSummary{
		ID:       id,
		Name:     w.Name,
		Email:    w.Email,
		Provider: w.Provider,
	}
	if w.Age != nil {
		u.Age = *w.Age
	}
	if w.Gender != nil {
		u.Gender = *w.Gender
	}
	if w.ProfilePicture != nil {
		u.ProfilePicture = *w.ProfilePicture
	}
	switch {
	case w.HasPassword != nil:
		u.HasPassword = *w.HasPassword
	case w.Password != nil:
		u.HasPassword = *w.Password != ""
	}
	return nil
}

// decodeID tolerates numeric identifiers; the directory is keyed by string ids.
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// IsGoogle reports whether the account signs in through Google.
func (u *UserSummary) IsGoogle() bool {
	return u != nil && u.Provider == ProviderGoogle
}

// NeedsCurrentPassword reports whether a password change must be confirmed
// with the existing password. Google accounts that never set one skip it.
func (u *UserSummary) NeedsCurrentPassword() bool {
	if u == nil {
		return true
	}
	return !(u.IsGoogle() && !u.HasPassword)
}

// ProfileComplete reports whether the fields collected on the
// complete-profile page are present.
func (u *UserSummary) ProfileComplete() bool {
	return u != nil && u.Age > 0 && u.Gender != ""
}

// UserRecord is a directory entry as returned by the user listing endpoints.
type UserRecord struct {
	UserSummary
	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON decodes the embedded summary and the creation timestamp. The
// embedded type's custom decoder would otherwise swallow the whole object.
func (r *UserRecord) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &r.UserSummary); err != nil {
		return err
	}
	var ts struct {
		CreatedAt *time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &ts); err != nil {
		return err
	}
	if ts.CreatedAt != nil {
		r.CreatedAt = *ts.CreatedAt
	}
	return nil
}
