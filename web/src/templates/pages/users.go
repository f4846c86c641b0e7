package pages

import (
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/view"
	"github.com/nfrund/authportal/internal/view/dto/account"
	"github.com/nfrund/authportal/web/src/templates/partials"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

// Users renders the directory page with its layout toggle.
func Users(data account.UsersData) cmp.Node {
	return g.Div(
		g.Class("mx-auto max-w-5xl"),
		g.Div(
			g.Class("mb-4 flex items-center justify-between"),
			g.H2(g.Class("text-lg font-semibold"), cmp.Text("All Users")),
			g.Div(
				g.Class("flex gap-2"),
				viewToggle("Cards", account.ViewCards, data.View),
				viewToggle("Table", account.ViewTable, data.View),
			),
		),
		UsersList(data),
	)
}

func viewToggle(label, mode, current string) cmp.Node {
	href := "/users?view=" + mode
	return g.A(
		g.Href(href),
		hx.Get(href), hx.Target("#users-list"), hx.Swap("outerHTML"), hx.PushURL("true"),
		c.Classes{
			"rounded-md border px-3 py-1 text-sm": true,
			"bg-blue-600 text-white":              mode == current,
			"hover:bg-gray-100":                   mode != current,
		},
		cmp.Text(label),
	)
}

// UsersList is the swappable part of the directory.
func UsersList(data account.UsersData) cmp.Node {
	var body cmp.Node
	switch {
	case data.Error != "":
		body = g.Div(
			partials.ErrorAlert(data.Error),
			g.A(g.Href("/users"), g.Class("mt-2 inline-block text-sm text-blue-600 hover:underline"), cmp.Text("Try again")),
		)
	case len(data.Users) == 0:
		body = g.P(g.Class("text-gray-500"), cmp.Text("No users found."))
	case data.View == account.ViewTable:
		body = usersTable(data)
	default:
		body = usersCards(data)
	}
	return g.Div(g.ID("users-list"), body)
}

// userHref sends the viewer's own entry to their profile page.
func userHref(u domain.UserRecord, currentID string) string {
	if u.ID == currentID {
		return "/profile"
	}
	return "/users/" + u.ID
}

func usersCards(data account.UsersData) cmp.Node {
	return g.Div(
		g.Class("grid gap-4 sm:grid-cols-2 lg:grid-cols-3"),
		cmp.Map(data.Users, func(u domain.UserRecord) cmp.Node {
			return g.A(
				g.Href(userHref(u, data.CurrentID)),
				g.Class("block rounded-xl bg-white p-4 shadow hover:shadow-md"),
				g.Div(
					g.Class("flex items-center gap-3"),
					avatar(view.AssetURL(data.AssetBase, u.ProfilePicture), view.Initials(u.Name), "h-12 w-12"),
					g.Div(
						g.P(g.Class("font-semibold"), cmp.Text(u.Name), cmp.If(u.ID == data.CurrentID, g.Span(g.Class("ml-1 text-xs text-blue-600"), cmp.Text("(you)")))),
						g.P(g.Class("text-sm text-gray-500"), cmp.Text(u.Email)),
					),
				),
				g.P(g.Class("mt-3 text-xs text-gray-400"), cmp.Text("Joined "+view.Date(u.CreatedAt))),
			)
		}),
	)
}

func usersTable(data account.UsersData) cmp.Node {
	return g.Div(
		g.Class("overflow-x-auto rounded-xl bg-white shadow"),
		g.Table(
			g.Class("min-w-full text-sm"),
			g.THead(
				g.Tr(
					g.Class("border-b text-left text-gray-500"),
					g.Th(g.Class("px-4 py-2"), cmp.Text("Name")),
					g.Th(g.Class("px-4 py-2"), cmp.Text("Email")),
					g.Th(g.Class("px-4 py-2"), cmp.Text("Age")),
					g.Th(g.Class("px-4 py-2"), cmp.Text("Gender")),
					g.Th(g.Class("px-4 py-2"), cmp.Text("Provider")),
					g.Th(g.Class("px-4 py-2"), cmp.Text("Joined")),
				),
			),
			g.TBody(
				cmp.Map(data.Users, func(u domain.UserRecord) cmp.Node {
					return g.Tr(
						g.Class("border-b hover:bg-gray-50"),
						g.Td(g.Class("px-4 py-2"), g.A(g.Href(userHref(u, data.CurrentID)), g.Class("text-blue-600 hover:underline"), cmp.Text(u.Name))),
						g.Td(g.Class("px-4 py-2"), cmp.Text(u.Email)),
						g.Td(g.Class("px-4 py-2"), cmp.Text(ageText(u.Age))),
						g.Td(g.Class("px-4 py-2"), cmp.Text(view.Label(u.Gender))),
						g.Td(g.Class("px-4 py-2"), cmp.Text(view.Label(string(u.Provider)))),
						g.Td(g.Class("px-4 py-2"), cmp.Text(view.Date(u.CreatedAt))),
					)
				}),
			),
		),
	)
}

// UserDetail renders one directory entry.
func UserDetail(data account.UserDetailData) cmp.Node {
	back := g.A(g.Href("/users"), g.Class("mb-4 inline-block text-sm text-blue-600 hover:underline"), cmp.Text("← Back to users"))
	if data.User == nil {
		return g.Div(
			g.ID("user-detail"),
			g.Class("mx-auto max-w-2xl"),
			back,
			partials.ErrorAlert(data.Error),
		)
	}
	u := data.User
	return g.Div(
		g.ID("user-detail"),
		g.Class("mx-auto max-w-2xl"),
		back,
		card(
			g.Div(
				g.Class("flex items-center gap-4"),
				avatar(view.AssetURL(data.AssetBase, u.ProfilePicture), view.Initials(u.Name), "h-20 w-20"),
				g.Div(
					g.H2(g.Class("text-2xl font-bold"), cmp.Text(u.Name)),
					g.P(g.Class("text-gray-500"), cmp.Text(u.Email)),
				),
			),
			g.Dl(
				g.Class("mt-6"),
				detail("Age", ageText(u.Age)),
				detail("Gender", view.Label(u.Gender)),
				detail("Sign-in method", view.Label(string(u.Provider))),
				detail("Member since", view.Date(u.CreatedAt)),
			),
		),
	)
}
