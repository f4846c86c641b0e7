package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/middleware"
	"github.com/nfrund/authportal/internal/rendering"
	"github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/internal/view"
	"github.com/nfrund/authportal/internal/view/dto/account"
	"github.com/nfrund/authportal/internal/view/dto/auth"
	templates "github.com/nfrund/authportal/web/src/templates/pages"
)

// Picture upload messages.
const (
	PictureTooLargeMessage = "Image size must be less than 5MB"
	PictureTypeMessage     = "Please select a valid image file"
)

// ProfileHandler serves the account pages of the signed-in user.
type ProfileHandler struct {
	pages
	api Gateway
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(api Gateway, renderer rendering.Renderer) *ProfileHandler {
	return &ProfileHandler{pages: pages{renderer: renderer}, api: api}
}

// AdoptSession stores the token and user handed over in the query string by
// the Google sign-in callback, then reloads the page without them. Requests
// without those parameters pass through untouched.
func AdoptSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		raw := c.QueryParam("user")
		if token == "" && raw == "" {
			return next(c)
		}

		logger := middleware.FromContext(c.Request().Context())
		user, err := parseHandoffUser(raw)
		if token == "" || err != nil {
			logger.Warn("Rejected sign-in handoff", "has_token", token != "", "error", err)
			if !session.Read(session.Current(c)).Authenticated {
				view.SetFlashError(c, "Google sign-in failed. Please try again.")
				return guard.Redirect(c, guard.SignInPath)
			}
			return guard.Redirect(c, c.Request().URL.Path)
		}

		if err := session.Save(session.Current(c), token, user); err != nil {
			logger.Error("Failed to save handed-over session", "error", err)
			return err
		}
		logger.Info("Session adopted from sign-in handoff", "user_id", user.ID, "provider", string(user.Provider))
		return guard.Redirect(c, c.Request().URL.Path)
	}
}

// parseHandoffUser decodes the user parameter, which some callers encode twice.
func parseHandoffUser(raw string) (*domain.UserSummary, error) {
	if raw == "" {
		return nil, errors.New("missing user")
	}
	var u domain.UserSummary
	err := json.Unmarshal([]byte(raw), &u)
	if err != nil {
		unescaped, uerr := url.QueryUnescape(raw)
		if uerr != nil {
			return nil, err
		}
		if err = json.Unmarshal([]byte(unescaped), &u); err != nil {
			return nil, err
		}
	}
	if u.ID == "" {
		return nil, errors.New("user without id")
	}
	return &u, nil
}

// CompleteProfileGet renders the form collecting age, gender and, for Google
// accounts, a first password.
func (h *ProfileHandler) CompleteProfileGet(c echo.Context) error {
	user := guard.StateFrom(c).User
	data := auth.CompleteProfileData{
		CSRF:          csrfToken(c),
		User:          user,
		Gender:        user.Gender,
		PasswordPanel: c.QueryParam("panel") == "password",
	}
	if user.Age > 0 {
		data.Age = strconv.Itoa(user.Age)
	}
	return h.app(c, http.StatusOK, "Complete Profile", user, templates.CompleteProfile(data))
}

// CompleteProfilePost submits the missing profile fields.
func (h *ProfileHandler) CompleteProfilePost(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())
	user := guard.StateFrom(c).User

	var req CompleteProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	req.Provider = string(user.Provider)

	data := auth.CompleteProfileData{CSRF: csrfToken(c), User: user, Age: req.Age, Gender: req.Gender}
	if err := c.Validate(&req); err != nil {
		data.Errors = FieldErrorsFrom(err)
		return h.app(c, http.StatusUnprocessableEntity, "Complete Profile", user, templates.CompleteProfile(data))
	}

	age, _ := strconv.Atoi(strings.TrimSpace(req.Age))
	in := apiclient.ProfileCompletion{Age: age, Gender: req.Gender}
	if user.IsGoogle() {
		in.Password = req.Password
	}

	store := session.Current(c)
	updated, err := h.api.CompleteProfile(c.Request().Context(), store, in)
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		logger.Warn("Failed to complete profile", "user_id", user.ID, "error", err)
		data.Error = failureMessage(err, GenericErrorMessage)
		return h.app(c, failureStatus(err), "Complete Profile", user, templates.CompleteProfile(data))
	}

	if err := session.SaveUser(store, updated); err != nil {
		return err
	}
	view.SetFlashSuccess(c, "Profile completed successfully!")
	return guard.Redirect(c, guard.ProfilePath)
}

// ProfileGet re-fetches the profile from the API and refreshes the cached
// copy in the session. When the fetch fails the cached copy is shown.
func (h *ProfileHandler) ProfileGet(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())
	store := session.Current(c)
	data := h.profileData(c, guard.StateFrom(c).User)

	user, err := h.api.Profile(c.Request().Context(), store)
	switch {
	case err == nil:
		if err := session.SaveUser(store, user); err != nil {
			return err
		}
		data = h.profileData(c, user)
	case isUnauthorized(err):
		return err
	default:
		logger.Warn("Failed to refresh profile", "error", err)
		data.Error = failureMessage(err, GenericErrorMessage)
	}

	data.Editing = c.QueryParam("edit") != ""
	data.PasswordPanel = c.QueryParam("panel") == "password"
	return h.app(c, http.StatusOK, "Profile", data.User, templates.Profile(data))
}

// profileData prepares the page for user with the form prefilled.
func (h *ProfileHandler) profileData(c echo.Context, user *domain.UserSummary) account.ProfileData {
	data := account.ProfileData{
		CSRF:       csrfToken(c),
		User:       user,
		PictureURL: view.AssetURL(h.api.BaseURL(), user.ProfilePicture),
		Form:       account.ProfileForm{Name: user.Name, Gender: user.Gender},
	}
	if user.Age > 0 {
		data.Form.Age = strconv.Itoa(user.Age)
	}
	if exp, ok := session.TokenExpiry(session.Token(session.Current(c))); ok {
		data.TokenExpires = exp
	}
	return data
}

// ProfilePost saves the edit form, including an optional picture.
func (h *ProfileHandler) ProfilePost(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())
	user := guard.StateFrom(c).User

	var req ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}

	data := h.profileData(c, user)
	data.Editing = true
	data.Form = account.ProfileForm{Name: req.Name, Age: req.Age, Gender: req.Gender}

	errs := FieldErrorsFrom(c.Validate(&req))
	picture, err := readPicture(c)
	var rejected *pictureRejection
	switch {
	case errors.As(err, &rejected):
		if errs == nil {
			errs = view.FieldErrors{}
		}
		errs["profilePicture"] = rejected.Message
	case err != nil:
		return err
	}
	if errs.Any() {
		data.Errors = errs
		return h.app(c, http.StatusUnprocessableEntity, "Profile", user, templates.Profile(data))
	}

	store := session.Current(c)
	updated, err := h.api.UpdateProfile(c.Request().Context(), store, apiclient.ProfileUpdate{
		Name:    req.Name,
		Age:     strings.TrimSpace(req.Age),
		Gender:  req.Gender,
		Picture: picture,
	})
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		logger.Warn("Failed to update profile", "user_id", user.ID, "error", err)
		data.Error = failureMessage(err, GenericErrorMessage)
		return h.app(c, failureStatus(err), "Profile", user, templates.Profile(data))
	}

	if err := session.SaveUser(store, updated); err != nil {
		return err
	}
	view.SetFlashSuccess(c, "Profile updated successfully!")
	return guard.Redirect(c, guard.ProfilePath)
}

// pictureRejection is a profile picture refused before upload. Message is
// shown next to the file input.
type pictureRejection struct {
	Message string
}

func (e *pictureRejection) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrInvalidUpload, e.Message)
}

func (e *pictureRejection) Unwrap() error {
	return domain.ErrInvalidUpload
}

// readPicture returns the uploaded picture, or a *pictureRejection when it is
// refused. An empty file input counts as no picture.
func readPicture(c echo.Context) (*apiclient.FilePart, error) {
	fh, err := c.FormFile("profilePicture")
	if errors.Is(err, http.ErrMissingFile) || (err == nil && (fh.Filename == "" || fh.Size == 0)) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	if fh.Size > MaxPictureBytes {
		return nil, &pictureRejection{Message: PictureTooLargeMessage}
	}
	contentType := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &pictureRejection{Message: PictureTypeMessage}
	}
	body, err := readAll(fh)
	if err != nil {
		return nil, err
	}
	return &apiclient.FilePart{
		Field:       "profilePicture",
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        body,
	}, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// PasswordPost changes the password, or sets a first one for Google accounts.
func (h *ProfileHandler) PasswordPost(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())
	user := guard.StateFrom(c).User

	var req PasswordChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	req.NeedsCurrent = user.NeedsCurrentPassword()

	data := h.profileData(c, user)
	data.PasswordPanel = true
	if err := c.Validate(&req); err != nil {
		data.PasswordErrors = FieldErrorsFrom(err)
		return h.app(c, http.StatusUnprocessableEntity, "Profile", user, templates.Profile(data))
	}

	in := apiclient.PasswordChange{NewPassword: req.NewPassword}
	if req.NeedsCurrent {
		in.CurrentPassword = req.CurrentPassword
	}

	store := session.Current(c)
	msg, err := h.api.ChangePassword(c.Request().Context(), store, in)
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		logger.Warn("Failed to change password", "user_id", user.ID, "error", err)
		data.PasswordError = failureMessage(err, GenericErrorMessage)
		return h.app(c, failureStatus(err), "Profile", user, templates.Profile(data))
	}

	if !user.HasPassword {
		updated := *user
		updated.HasPassword = true
		if err := session.SaveUser(store, &updated); err != nil {
			return err
		}
	}
	view.SetFlashSuccess(c, msg)
	return guard.Redirect(c, guard.ProfilePath)
}
