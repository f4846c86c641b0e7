package pages

import (
	"strconv"

	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// ErrorPage is shown for errors that escape the handlers.
func ErrorPage(status int, message string) cmp.Node {
	return narrowCard(
		g.ID("error-page"),
		heading(strconv.Itoa(status), message),
		g.P(
			g.Class("text-center"),
			g.A(g.Href("/"), g.Class("text-blue-600 hover:underline"), cmp.Text("Back to home")),
		),
	)
}
