package view_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/nfrund/authportal/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

func TestAdaptGomponentToTempl(t *testing.T) {
	component := view.AdaptGomponentToTempl(g.P(g.Class("note"), cmp.Text("hello")))

	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	assert.Equal(t, `<p class="note">hello</p>`, buf.String())
}

func TestAdaptGomponentToTempl_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := view.AdaptGomponentToTempl(cmp.Text("x")).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
