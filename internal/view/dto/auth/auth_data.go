package auth

import (
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/view"
)

// SignInData is the view model for the sign-in form. Email is echoed back
// after a failed attempt.
type SignInData struct {
	CSRF   string
	Email  string
	Error  string
	Errors view.FieldErrors
}

// SignUpData is the view model for the registration form.
type SignUpData struct {
	CSRF   string
	Name   string
	Email  string
	Error  string
	Errors view.FieldErrors
}

// CompleteProfileData is the view model for the complete-profile form.
type CompleteProfileData struct {
	CSRF   string
	User   *domain.UserSummary
	Age    string
	Gender string
	Error  string
	Errors view.FieldErrors
	// PasswordPanel is set when the user asked to change their password
	// before finishing the profile.
	PasswordPanel bool
}

// AskPassword reports whether the form must collect a first password.
func (d CompleteProfileData) AskPassword() bool {
	return d.User.IsGoogle()
}
