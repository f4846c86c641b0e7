package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/middleware"
	"github.com/nfrund/authportal/internal/rendering"
	"github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/internal/view/dto/account"
	templates "github.com/nfrund/authportal/web/src/templates/pages"
	htmx "maragu.dev/gomponents-htmx/http"
)

// UserNotFoundMessage is shown for an unknown user id.
const UserNotFoundMessage = "User not found"

// UsersHandler serves the user directory.
type UsersHandler struct {
	pages
	api Gateway
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(api Gateway, renderer rendering.Renderer) *UsersHandler {
	return &UsersHandler{pages: pages{renderer: renderer}, api: api}
}

// UsersGet lists every user as cards or a table. The view toggle swaps
// only the list over htmx.
func (h *UsersHandler) UsersGet(c echo.Context) error {
	st := guard.StateFrom(c)
	data := account.UsersData{
		CurrentID: st.User.ID,
		View:      viewMode(c.QueryParam("view")),
		AssetBase: h.api.BaseURL(),
	}

	users, err := h.api.Users(c.Request().Context(), session.Current(c))
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		middleware.FromContext(c.Request().Context()).Warn("Failed to load users", "error", err)
		data.Error = failureMessage(err, GenericErrorMessage)
		if apiclient.Classify(err) == apiclient.KindOther {
			data.Error = "Failed to load users"
		}
	}
	data.Users = users

	if htmx.IsRequest(c.Request().Header) {
		return h.fragment(c, templates.UsersList(data))
	}
	return h.app(c, http.StatusOK, "Users", st.User, templates.Users(data))
}

func viewMode(v string) string {
	if v == account.ViewTable {
		return account.ViewTable
	}
	return account.ViewCards
}

// UserGet shows one user. The signed-in user's own id goes to /profile.
func (h *UsersHandler) UserGet(c echo.Context) error {
	st := guard.StateFrom(c)
	id := c.Param("id")
	if id == st.User.ID {
		return guard.Redirect(c, guard.ProfilePath)
	}

	data := account.UserDetailData{AssetBase: h.api.BaseURL()}
	status := http.StatusOK

	user, err := h.api.User(c.Request().Context(), session.Current(c), id)
	switch apiclient.Classify(err) {
	case apiclient.KindNone:
		data.User = user
	case apiclient.KindUnauthorized:
		return err
	case apiclient.KindNotFound:
		data.Error = UserNotFoundMessage
		status = http.StatusNotFound
	case apiclient.KindNetwork:
		data.Error = NetworkErrorMessage
		status = http.StatusBadGateway
	default:
		middleware.FromContext(c.Request().Context()).Warn("Failed to load user", "user_id", id, "error", err)
		data.Error = "Failed to load user profile"
		status = http.StatusBadGateway
	}

	return h.app(c, status, "User", st.User, templates.UserDetail(data))
}
