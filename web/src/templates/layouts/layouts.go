package layouts

import (
	"strings"

	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/view"
	"github.com/nfrund/authportal/internal/view/dto/account"
	"github.com/nfrund/authportal/web/src/templates/partials"
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

// Nav is what the signed-in chrome needs to draw itself.
type Nav struct {
	Path string
	User *domain.UserSummary
	CSRF string
}

// Base is the HTML document shell shared by every page.
func Base(title string, body ...cmp.Node) cmp.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []cmp.Node{
			g.Script(g.Src("https://cdn.tailwindcss.com")),
			g.Script(g.Src("https://unpkg.com/htmx.org@2.0.4"), g.Defer()),
			g.Link(g.Rel("stylesheet"), g.Href("/static/css/app.css")),
		},
		Body: []cmp.Node{
			g.Class("bg-gray-50 text-gray-900 min-h-screen"),
			cmp.Group(body),
		},
	})
}

// Public wraps a page shown to anonymous visitors.
func Public(title string, flashes view.FlashData, content cmp.Node) cmp.Node {
	return Base(title,
		g.Div(
			g.Class("min-h-screen flex flex-col items-center justify-center px-4"),
			g.Div(
				g.Class("w-full"),
				partials.Flashes(flashes),
				content,
			),
		),
	)
}

// App wraps a page behind the sign-in guard with the navbar and sidebar.
func App(title string, nav Nav, flashes view.FlashData, content cmp.Node) cmp.Node {
	return Base(title,
		g.Div(
			g.Class("flex min-h-screen"),
			sidebar(nav.Path),
			g.Div(
				g.Class("flex-1 flex flex-col"),
				navbar(nav),
				g.Main(
					g.Class("flex-1 p-6"),
					partials.Flashes(flashes),
					content,
				),
			),
		),
	)
}

func navbar(nav Nav) cmp.Node {
	heading := HeadingFor(nav.Path)
	return g.Header(
		g.Class("flex items-center justify-between border-b bg-white px-6 py-4"),
		g.Div(
			g.H1(g.Class("text-xl font-semibold"), cmp.Text(heading.Title)),
			g.P(g.Class("text-sm text-gray-500"), cmp.Text(heading.Subtitle)),
		),
		g.Div(
			g.Class("flex items-center gap-4"),
			cmp.Iff(nav.User != nil, func() cmp.Node {
				return g.Span(g.Class("text-sm text-gray-700"), cmp.Text(userName(nav.User)))
			}),
			cmp.If(nav.User != nil && showsPasswordAction(nav.Path),
				g.A(
					g.ID("password-action"),
					g.Href(nav.Path+"?panel=password"),
					g.Class("rounded-md border px-3 py-1 text-sm hover:bg-gray-100"),
					cmp.Text(account.PasswordLabel(nav.User)),
				),
			),
			g.Form(
				g.Method("post"), g.Action("/logout"),
				partials.CSRFField(nav.CSRF),
				g.Button(g.Type("submit"), g.Class("rounded-md bg-gray-800 px-3 py-1 text-sm text-white"), cmp.Text("Logout")),
			),
		),
	)
}

func userName(u *domain.UserSummary) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

type navLink struct {
	href  string
	label string
}

var sidebarLinks = []navLink{
	{"/", "Home"},
	{"/dashboard", "Dashboard"},
	{"/profile", "Profile"},
	{"/users", "Users"},
}

func sidebar(path string) cmp.Node {
	return g.Aside(
		g.Class("hidden md:block w-56 border-r bg-white"),
		g.Div(g.Class("px-6 py-5 text-lg font-bold text-blue-600"), cmp.Text(appName)),
		g.Nav(
			g.Class("flex flex-col gap-1 px-3"),
			cmp.Map(sidebarLinks, func(l navLink) cmp.Node {
				return g.A(
					g.Href(l.href),
					c.Classes{
						"rounded-md px-3 py-2 text-sm":    true,
						"bg-blue-600 text-white":          isActive(path, l.href),
						"text-gray-700 hover:bg-gray-100": !isActive(path, l.href),
					},
					cmp.Text(l.label),
				)
			}),
		),
	)
}

func isActive(path, href string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}
