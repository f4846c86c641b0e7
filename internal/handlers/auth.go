package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/middleware"
	"github.com/nfrund/authportal/internal/rendering"
	"github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/internal/view"
	"github.com/nfrund/authportal/internal/view/dto/auth"
	templates "github.com/nfrund/authportal/web/src/templates/pages"
)

// CompleteProfilePath is where new accounts finish their profile.
const CompleteProfilePath = "/complete-profile"

// AuthHandler holds dependencies for the sign-in, sign-up and sign-out flows.
type AuthHandler struct {
	pages
	api Gateway
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(api Gateway, renderer rendering.Renderer) *AuthHandler {
	return &AuthHandler{pages: pages{renderer: renderer}, api: api}
}

// SignInGet renders the sign-in page.
func (h *AuthHandler) SignInGet(c echo.Context) error {
	return h.public(c, http.StatusOK, "Sign In", templates.SignIn(auth.SignInData{CSRF: csrfToken(c)}))
}

// SignInPost handles the sign-in form submission.
func (h *AuthHandler) SignInPost(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())

	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	data := auth.SignInData{CSRF: csrfToken(c), Email: req.Email}
	if err := c.Validate(&req); err != nil {
		data.Errors = FieldErrorsFrom(err)
		return h.public(c, http.StatusUnprocessableEntity, "Sign In", templates.SignIn(data))
	}

	store := session.Current(c)
	res, err := h.api.Login(c.Request().Context(), store, apiclient.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		logger.Warn("Failed sign-in attempt", "email", req.Email, "kind", apiclient.Classify(err).String())
		data.Error = failureMessage(err, "Invalid email or password.")
		return h.public(c, failureStatus(err), "Sign In", templates.SignIn(data))
	}

	if err := session.Save(store, res.Token, res.User); err != nil {
		logger.Error("Failed to save session after sign-in", "error", err)
		return err
	}
	logger.Info("User signed in", "user_id", res.User.ID)
	view.SetFlashSuccess(c, "Logged in successfully!")
	return guard.Redirect(c, guard.ProfilePath)
}

// SignUpGet renders the registration page.
func (h *AuthHandler) SignUpGet(c echo.Context) error {
	return h.public(c, http.StatusOK, "Sign Up", templates.SignUp(auth.SignUpData{CSRF: csrfToken(c)}))
}

// SignUpPost creates the account and signs the new user in.
func (h *AuthHandler) SignUpPost(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())

	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	data := auth.SignUpData{CSRF: csrfToken(c), Name: req.Name, Email: req.Email}
	if err := c.Validate(&req); err != nil {
		data.Errors = FieldErrorsFrom(err)
		return h.public(c, http.StatusUnprocessableEntity, "Sign Up", templates.SignUp(data))
	}

	store := session.Current(c)
	res, err := h.api.Signup(c.Request().Context(), store, apiclient.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		logger.Warn("Failed sign-up attempt", "email", req.Email, "kind", apiclient.Classify(err).String())
		data.Error = failureMessage(err, GenericErrorMessage)
		return h.public(c, failureStatus(err), "Sign Up", templates.SignUp(data))
	}

	if err := session.Save(store, res.Token, res.User); err != nil {
		logger.Error("Failed to save session after sign-up", "error", err)
		return err
	}
	logger.Info("User signed up", "user_id", res.User.ID)
	view.SetFlashSuccess(c, "Account created successfully!")

	if !res.User.ProfileComplete() {
		return guard.Redirect(c, CompleteProfilePath)
	}
	return guard.Redirect(c, guard.ProfilePath)
}

// GoogleRedirect sends the browser to the API's Google sign-in entry point.
// The API redirects back to /complete-profile with the token in the query.
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.api.GoogleAuthURL())
}

// Logout clears the session and returns to the home page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := session.Current(c).Clear(); err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to clear session on logout", "error", err)
		return err
	}
	view.SetFlashSuccess(c, "You have been logged out.")
	return guard.Redirect(c, "/")
}
