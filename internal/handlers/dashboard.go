package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/middleware"
	"github.com/nfrund/authportal/internal/rendering"
	"github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/internal/view/dto/account"
	templates "github.com/nfrund/authportal/web/src/templates/pages"
	"golang.org/x/sync/errgroup"
	htmx "maragu.dev/gomponents-htmx/http"
)

// Dashboard failure messages.
const (
	DashboardNotFoundMessage = "Dashboard API endpoints not found. Backend may not be running."
	DashboardNetworkMessage  = "Cannot connect to backend server. Please ensure backend is running."
)

// DashboardHandler serves the analytics dashboard.
type DashboardHandler struct {
	pages
	api Gateway
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(api Gateway, renderer rendering.Renderer) *DashboardHandler {
	return &DashboardHandler{pages: pages{renderer: renderer}, api: api}
}

// DashboardGet loads the five analytics series and renders them. The Retry
// button re-requests this route over htmx and gets only the panels back.
func (h *DashboardHandler) DashboardGet(c echo.Context) error {
	st := guard.StateFrom(c)
	var data account.DashboardData

	analytics, err := h.load(c.Request().Context(), session.Current(c))
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		middleware.FromContext(c.Request().Context()).Warn("Failed to load dashboard", "kind", apiclient.Classify(err).String(), "error", err)
		data.Error = dashboardMessage(err)
	} else {
		data.Analytics = analytics
	}

	if htmx.IsRequest(c.Request().Header) {
		return h.fragment(c, templates.DashboardPanels(data))
	}
	return h.app(c, http.StatusOK, "Dashboard", st.User, templates.Dashboard(data))
}

// load fetches every series concurrently. Any failure fails the whole
// dashboard; an authorization failure takes precedence over the others.
func (h *DashboardHandler) load(ctx context.Context, store session.Store) (*domain.Analytics, error) {
	var (
		a    domain.Analytics
		mu   sync.Mutex
		errs []error
		eg   errgroup.Group
	)
	track := func(err error) error {
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
		return err
	}

	eg.Go(func() (err error) {
		a.Overview, err = h.api.AnalyticsOverview(ctx, store)
		return track(err)
	})
	eg.Go(func() (err error) {
		a.Gender, err = h.api.AnalyticsGender(ctx, store)
		return track(err)
	})
	eg.Go(func() (err error) {
		a.Age, err = h.api.AnalyticsAge(ctx, store)
		return track(err)
	})
	eg.Go(func() (err error) {
		a.Trends, err = h.api.AnalyticsTrends(ctx, store)
		return track(err)
	})
	eg.Go(func() (err error) {
		a.Recent, err = h.api.AnalyticsRecent(ctx, store)
		return track(err)
	})

	if err := eg.Wait(); err != nil {
		for _, e := range errs {
			if errors.Is(e, apiclient.ErrUnauthorized) {
				return nil, e
			}
		}
		return nil, err
	}
	return &a, nil
}

func dashboardMessage(err error) string {
	switch apiclient.Classify(err) {
	case apiclient.KindNotFound:
		return DashboardNotFoundMessage
	case apiclient.KindNetwork:
		return DashboardNetworkMessage
	}
	status := "Unknown"
	if s := apiclient.Status(err); s != 0 {
		status = fmt.Sprint(s)
	}
	msg := apiclient.Message(err)
	if msg == "" {
		msg = "Failed to load dashboard data"
	}
	return fmt.Sprintf("%s (Status: %s)", msg, status)
}
