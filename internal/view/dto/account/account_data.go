package account

import (
	"time"

	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/view"
)

// Directory layouts for the users page.
const (
	ViewCards = "cards"
	ViewTable = "table"
)

// ProfileForm holds the editable profile values as submitted.
type ProfileForm struct {
	Name   string
	Age    string
	Gender string
}

// ProfileData is the view model for /profile.
type ProfileData struct {
	CSRF         string
	User         *domain.UserSummary
	PictureURL   string
	// TokenExpires is zero when the token carries no readable expiry.
	TokenExpires time.Time
	Editing      bool
	Form         ProfileForm
	Errors       view.FieldErrors
	Error        string
	Success      string

	PasswordPanel  bool
	PasswordErrors view.FieldErrors
	PasswordError  string
}

// PasswordLabel is the wording of the password action for this user.
func (d ProfileData) PasswordLabel() string {
	return PasswordLabel(d.User)
}

// PasswordLabel returns "Set Password" for Google accounts without a
// password and "Change Password" for everyone else.
func PasswordLabel(u *domain.UserSummary) string {
	if u.NeedsCurrentPassword() {
		return "Change Password"
	}
	return "Set Password"
}

// UsersData is the view model for the user directory.
type UsersData struct {
	Users     []domain.UserRecord
	CurrentID string
	View      string
	Error     string
	// AssetBase resolves relative profile picture paths.
	AssetBase string
}

// UserDetailData is the view model for /users/:id.
type UserDetailData struct {
	User      *domain.UserRecord
	Error     string
	AssetBase string
}

// DashboardData is the view model for /dashboard. Analytics is nil when
// loading failed and Error says why.
type DashboardData struct {
	Analytics *domain.Analytics
	Error     string
}
