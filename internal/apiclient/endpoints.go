package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/session"
)

// Endpoint paths relative to the API root.
const (
	EndpointLogin             = "/auth/login"
	EndpointSignup            = "/auth/signup"
	EndpointGoogleAuth        = "/auth/google"
	EndpointCompleteProfile   = "/auth/complete-profile"
	EndpointProfile           = "/users/profile"
	EndpointChangePassword    = "/users/change-password"
	EndpointUsers             = "/users"
	EndpointAnalyticsPrefix   = "/users/analytics/"
	EndpointAnalyticsOverview = EndpointAnalyticsPrefix + "overview"
	EndpointAnalyticsGender   = EndpointAnalyticsPrefix + "gender"
	EndpointAnalyticsAge      = EndpointAnalyticsPrefix + "age"
	EndpointAnalyticsTrends   = EndpointAnalyticsPrefix + "trends"
	EndpointAnalyticsRecent   = EndpointAnalyticsPrefix + "recent"
)

// Credentials is the sign-in request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request body.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what sign-in and sign-up return.
type AuthResult struct {
	Token string              `json:"token"`
	User  *domain.UserSummary `json:"user"`
}

// ProfileCompletion is the complete-profile request body. Password is only
// sent for Google accounts choosing a first password.
type ProfileCompletion struct {
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Password string `json:"password,omitempty"`
}

// ProfileUpdate is the editable part of a profile plus an optional picture.
type ProfileUpdate struct {
	Name    string
	Age     string
	Gender  string
	Picture *FilePart
}

// PasswordChange is the change-password request body. CurrentPassword is
// omitted for Google accounts that never set a password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword"`
}

// Login exchanges credentials for a session. No token is attached.
func (c *Client) Login(ctx context.Context, store session.Store, creds Credentials) (*AuthResult, error) {
	return c.authenticate(ctx, store, EndpointLogin, creds)
}

// Signup registers a credentials account and returns its session.
func (c *Client) Signup(ctx context.Context, store session.Store, reg Registration) (*AuthResult, error) {
	return c.authenticate(ctx, store, EndpointSignup, reg)
}

func (c *Client) authenticate(ctx context.Context, store session.Store, endpoint string, body any) (*AuthResult, error) {
	var res AuthResult
	if err := c.CallJSON(ctx, store, endpoint, Options{Method: http.MethodPost, JSON: body}, &res); err != nil {
		return nil, err
	}
	if res.Token == "" || res.User == nil {
		return nil, &HTTPError{Status: http.StatusBadGateway, Message: "Malformed authentication response", Endpoint: endpoint}
	}
	return &res, nil
}

// GoogleAuthURL is where the browser goes to start the OAuth flow. The API
// redirects back to /complete-profile?token=&user= when it finishes.
func (c *Client) GoogleAuthURL() string {
	return c.URL(EndpointGoogleAuth)
}

// CompleteProfile submits the fields missing after registration.
func (c *Client) CompleteProfile(ctx context.Context, store session.Store, in ProfileCompletion) (*domain.UserSummary, error) {
	raw, err := c.Call(ctx, store, EndpointCompleteProfile, Options{Method: http.MethodPost, JSON: in})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw, EndpointCompleteProfile)
}

// Profile fetches the signed-in user's record.
func (c *Client) Profile(ctx context.Context, store session.Store) (*domain.UserSummary, error) {
	raw, err := c.Call(ctx, store, EndpointProfile, Options{})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw, EndpointProfile)
}

// UpdateProfile sends the profile form as multipart/form-data.
func (c *Client) UpdateProfile(ctx context.Context, store session.Store, in ProfileUpdate) (*domain.UserSummary, error) {
	opts := Options{
		Method: http.MethodPut,
		Form: map[string]string{
			"name":   in.Name,
			"age":    in.Age,
			"gender": in.Gender,
		},
	}
	if in.Picture != nil {
		pic := *in.Picture
		pic.Field = "profilePicture"
		opts.Files = []FilePart{pic}
	}
	raw, err := c.Call(ctx, store, EndpointProfile, opts)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw, EndpointProfile)
}

// ChangePassword sets or rotates the account password and returns the
// API's confirmation message.
func (c *Client) ChangePassword(ctx context.Context, store session.Store, in PasswordChange) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	if err := c.CallJSON(ctx, store, EndpointChangePassword, Options{Method: http.MethodPost, JSON: in}, &res); err != nil {
		return "", err
	}
	if res.Message == "" {
		res.Message = "Password changed successfully!"
	}
	return res.Message, nil
}

// Users lists the directory. The API answers either {"users": [...]} or a
// bare array.
func (c *Client) Users(ctx context.Context, store session.Store) ([]domain.UserRecord, error) {
	raw, err := c.Call(ctx, store, EndpointUsers, Options{})
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	var users []domain.UserRecord
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &users); err != nil {
			return nil, fmt.Errorf("failed to decode response from %s: %w", EndpointUsers, err)
		}
		return users, nil
	}
	var wrapped struct {
		Users []domain.UserRecord `json:"users"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", EndpointUsers, err)
	}
	return wrapped.Users, nil
}

// User fetches one directory entry by id.
func (c *Client) User(ctx context.Context, store session.Store, id string) (*domain.UserRecord, error) {
	endpoint := EndpointUsers + "/" + url.PathEscape(id)
	raw, err := c.Call(ctx, store, endpoint, Options{})
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.User) > 0 && string(wrapped.User) != "null" {
		raw = wrapped.User
	}
	var rec domain.UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return &rec, nil
}

// AnalyticsOverview fetches the headline counters.
func (c *Client) AnalyticsOverview(ctx context.Context, store session.Store) (domain.Overview, error) {
	var out domain.Overview
	err := c.CallJSON(ctx, store, EndpointAnalyticsOverview, Options{}, &out)
	return out, err
}

// AnalyticsGender fetches the gender distribution.
func (c *Client) AnalyticsGender(ctx context.Context, store session.Store) ([]domain.GenderCount, error) {
	var out []domain.GenderCount
	err := c.CallJSON(ctx, store, EndpointAnalyticsGender, Options{}, &out)
	return out, err
}

// AnalyticsAge fetches the age buckets.
func (c *Client) AnalyticsAge(ctx context.Context, store session.Store) ([]domain.AgeBucket, error) {
	var out []domain.AgeBucket
	err := c.CallJSON(ctx, store, EndpointAnalyticsAge, Options{}, &out)
	return out, err
}

// AnalyticsTrends fetches the registration trend.
func (c *Client) AnalyticsTrends(ctx context.Context, store session.Store) ([]domain.TrendPoint, error) {
	var out []domain.TrendPoint
	err := c.CallJSON(ctx, store, EndpointAnalyticsTrends, Options{}, &out)
	return out, err
}

// AnalyticsRecent fetches the most recent registrations.
func (c *Client) AnalyticsRecent(ctx context.Context, store session.Store) ([]domain.UserRecord, error) {
	var out []domain.UserRecord
	err := c.CallJSON(ctx, store, EndpointAnalyticsRecent, Options{}, &out)
	return out, err
}

// decodeUser accepts either {"user": {...}} or a bare user object.
func decodeUser(raw json.RawMessage, endpoint string) (*domain.UserSummary, error) {
	var wrapped struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.User) > 0 && string(wrapped.User) != "null" {
		raw = wrapped.User
	}
	var u domain.UserSummary
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("failed to decode response from %s: %w", endpoint, domain.ErrInvalidSession)
	}
	return &u, nil
}

