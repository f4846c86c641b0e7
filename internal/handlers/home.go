package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/rendering"
	templates "github.com/nfrund/authportal/web/src/templates/pages"
)

// HomeHandler serves the landing page.
type HomeHandler struct {
	pages
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(renderer rendering.Renderer) *HomeHandler {
	return &HomeHandler{pages: pages{renderer: renderer}}
}

// HomeGet renders the landing page. It is public; a signed-in visitor sees
// links into the app instead of the sign-in buttons.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	return h.public(c, http.StatusOK, "Home", templates.Home(guard.StateFrom(c).User))
}
