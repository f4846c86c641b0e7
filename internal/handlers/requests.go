package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/authportal/internal/view"
)

// Age bounds accepted on the profile forms.
const (
	MinAge = 13
	MaxAge = 120
)

// MaxPictureBytes caps profile picture uploads.
const MaxPictureBytes = 5 << 20

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator. Field names in errors are the
// form field names, so they line up with the inputs on the page.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("agerange", validateAgeRange); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

func validateAgeRange(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n >= MinAge && n <= MaxAge
}

// SignInRequest is the sign-in form.
type SignInRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// SignUpRequest is the registration form.
type SignUpRequest struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// CompleteProfileRequest is the complete-profile form. Provider is filled
// from the session, never from the form.
type CompleteProfileRequest struct {
	Age             string `form:"age" validate:"required,agerange"`
	Gender          string `form:"gender" validate:"required,oneof=male female other"`
	Provider        string `form:"-"`
	Password        string `form:"password" validate:"required_if=Provider google,omitempty,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required_with=Password,omitempty,eqfield=Password"`
}

// ProfileUpdateRequest is the profile edit form; the picture is read separately.
type ProfileUpdateRequest struct {
	Name   string `form:"name" validate:"required"`
	Age    string `form:"age" validate:"omitempty,agerange"`
	Gender string `form:"gender" validate:"omitempty,oneof=male female other"`
}

// PasswordChangeRequest is the change/set password form. NeedsCurrent is
// derived from the session user.
type PasswordChangeRequest struct {
	NeedsCurrent    bool   `form:"-"`
	CurrentPassword string `form:"currentPassword" validate:"required_if=NeedsCurrent true"`
	NewPassword     string `form:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// fieldMessages maps "field.tag" onto the message shown under the input.
var fieldMessages = map[string]string{
	"name.required":                 "Name is required",
	"email.required":                "Email is required",
	"email.email":                   "Please enter a valid email address",
	"password.required":             "Password is required",
	"password.required_if":          "Password is required for Google users",
	"password.min":                  "Password must be at least 6 characters long",
	"confirmPassword.required":      "Please confirm your password",
	"confirmPassword.required_with": "Please confirm your password",
	"confirmPassword.eqfield":       "Passwords do not match",
	"age.required":                  "Age is required",
	"age.agerange":                  "Age must be between 13 and 120",
	"gender.required":               "Gender is required",
	"gender.oneof":                  "Please select a valid gender",
	"currentPassword.required_if":   "Current password is required",
	"newPassword.required":          "New password is required",
	"newPassword.min":               "New password must be at least 6 characters long",
}

// namespaceMessages override fieldMessages for one struct.
var namespaceMessages = map[string]string{
	"PasswordChangeRequest.confirmPassword.eqfield": "New passwords do not match",
}

// FieldErrorsFrom converts a validation failure into per-field messages.
// Only the first failure per field is kept. Non-validation errors yield nil.
func FieldErrorsFrom(err error) view.FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := view.FieldErrors{}
	for _, fe := range verrs {
		if out.Has(fe.Field()) {
			continue
		}
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	key := fe.Field() + "." + fe.Tag()
	if msg, ok := namespaceMessages[fe.Namespace()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[key]; ok {
		return msg
	}
	return view.Label(fe.Field()) + " is invalid"
}
