// Package app wires the portal's services together.
package app

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/config"
	"github.com/nfrund/authportal/internal/rendering"
	"github.com/nfrund/authportal/internal/server"
	"github.com/samber/do/v2"
)

// NewInjector registers every service the server needs, built lazily on
// first use. cfg is provided as-is so callers and tests control the source.
func NewInjector(cfg config.Provider) *do.RootScope {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.Provide(i, newGateway)
	do.Provide(i, newRenderer)
	do.Provide(i, newServer)

	return i
}

func newGateway(i do.Injector) (*apiclient.Client, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return apiclient.New(cfg.GetAPIBaseURL()), nil
}

func newRenderer(i do.Injector) (rendering.Renderer, error) {
	return rendering.NewUniversalRenderer(), nil
}

func newServer(i do.Injector) (*server.Server, error) {
	s, err := server.New(server.Dependencies{
		Config:   do.MustInvoke[config.Provider](i),
		Gateway:  do.MustInvoke[*apiclient.Client](i),
		Renderer: do.MustInvoke[rendering.Renderer](i),
		Echo:     echo.New(),
	})
	if err != nil {
		return nil, err
	}
	s.RegisterRoutes()
	return s, nil
}

// Server resolves the fully routed server.
func Server(i do.Injector) (*server.Server, error) {
	return do.Invoke[*server.Server](i)
}
