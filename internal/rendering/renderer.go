package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer defines the contract for rendering any supported component:
// full pages arrive as templ.Component, htmx fragments as gomponents nodes.
type Renderer interface {
	// RenderComponent renders a component to a slice of bytes.
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes a component as the full HTTP response.
	RenderPage(c echo.Context, status int, component any) error
}

// UniversalRenderer renders templ components and gomponents nodes alike.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// gomponentNode matches gomponents.Node without importing it.
type gomponentNode interface {
	Render(w io.Writer) error
}

func (tr *UniversalRenderer) render(ctx context.Context, component any, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported component type: %T. Component must be templ.Component or implement Render(io.Writer) error", component)
	}
}

// RenderComponent implements the Renderer interface.
func (tr *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tr.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements the Renderer interface. The component is rendered
// into memory first so a failing component never leaves a half-written
// 200 response behind.
func (tr *UniversalRenderer) RenderPage(c echo.Context, status int, component any) error {
	body, err := tr.RenderComponent(c.Request().Context(), component)
	if err != nil {
		slog.Error("Failed to render page", "path", c.Path(), "error", err)
		return err
	}
	return c.HTMLBlob(status, body)
}

// Render implements echo.Renderer for use with c.Render(status, name, component).
// name is ignored; the component is passed as data.
func (tr *UniversalRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return tr.render(c.Request().Context(), data, w)
}
