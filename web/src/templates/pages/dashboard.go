package pages

import (
	"strconv"

	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/view"
	"github.com/nfrund/authportal/internal/view/dto/account"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Dashboard renders the analytics page. Series are shown as tables and
// plain bars; charting is left to the browser.
func Dashboard(data account.DashboardData) cmp.Node {
	return g.Div(
		g.Class("mx-auto max-w-6xl"),
		g.H2(g.Class("mb-1 text-2xl font-bold"), cmp.Text("Analytics Dashboard")),
		g.P(g.Class("mb-6 text-gray-500"), cmp.Text("User registrations and demographics at a glance")),
		DashboardPanels(data),
	)
}

// DashboardPanels is the part re-fetched by the Retry button.
func DashboardPanels(data account.DashboardData) cmp.Node {
	if data.Error != "" || data.Analytics == nil {
		return g.Div(
			g.ID("dashboard-panels"),
			g.Div(
				g.ID("dashboard-error"),
				g.Class("rounded-xl border border-red-200 bg-red-50 p-6 text-center"),
				g.P(g.Class("mb-4 text-red-800"), cmp.Text(data.Error)),
				g.Button(
					g.Type("button"),
					hx.Get("/dashboard"), hx.Target("#dashboard-panels"), hx.Swap("outerHTML"),
					g.Class("rounded-md bg-red-600 px-4 py-2 text-white hover:bg-red-700"),
					cmp.Text("Retry"),
				),
			),
		)
	}

	a := data.Analytics
	return g.Div(
		g.ID("dashboard-panels"),
		g.Class("space-y-6"),
		g.Div(
			g.Class("grid gap-4 sm:grid-cols-2 lg:grid-cols-4"),
			stat("Total Users", a.Overview.TotalUsers),
			stat("New Users (30d)", a.Overview.NewUsers),
			stat("This Week", a.Overview.WeeklyUsers),
			stat("Today's Users", a.Overview.TodayUsers),
		),
		g.Div(
			g.Class("grid gap-6 lg:grid-cols-2"),
			card(
				g.H3(g.Class("mb-4 font-semibold"), cmp.Text("Registration Trends (30 Days)")),
				trendTable(a.Trends),
			),
			card(
				g.H3(g.Class("mb-4 font-semibold"), cmp.Text("Gender Distribution")),
				bars(genderRows(a.Gender)),
			),
		),
		g.Div(
			g.Class("grid gap-6 lg:grid-cols-2"),
			card(
				g.H3(g.Class("mb-4 font-semibold"), cmp.Text("Age Distribution")),
				bars(ageRows(a.Age)),
			),
			card(
				g.H3(g.Class("mb-4 font-semibold"), cmp.Text("Recent Users")),
				recentUsers(a.Recent),
			),
		),
	)
}

func stat(label string, n int) cmp.Node {
	return card(
		g.P(g.Class("text-sm text-gray-500"), cmp.Text(label)),
		g.P(g.Class("mt-1 text-3xl font-bold"), cmp.Text(view.Count(n))),
	)
}

type barRow struct {
	label string
	count int
}

func genderRows(in []domain.GenderCount) []barRow {
	out := make([]barRow, 0, len(in))
	for _, v := range in {
		out = append(out, barRow{view.Label(v.Gender), v.Count})
	}
	return out
}

func ageRows(in []domain.AgeBucket) []barRow {
	out := make([]barRow, 0, len(in))
	for _, v := range in {
		out = append(out, barRow{v.AgeRange, v.Count})
	}
	return out
}

// barWidth is count as a percentage of the largest bar.
func barWidth(count, top int) int {
	if top <= 0 || count <= 0 {
		return 0
	}
	return count * 100 / top
}

func bars(rows []barRow) cmp.Node {
	if len(rows) == 0 {
		return g.P(g.Class("text-sm text-gray-500"), cmp.Text("No data yet."))
	}
	top := 0
	for _, r := range rows {
		if r.count > top {
			top = r.count
		}
	}
	return g.Div(
		g.Class("space-y-3"),
		cmp.Map(rows, func(r barRow) cmp.Node {
			return g.Div(
				g.Div(
					g.Class("flex justify-between text-sm"),
					g.Span(cmp.Text(r.label)),
					g.Span(g.Class("font-medium"), cmp.Text(view.Count(r.count))),
				),
				g.Div(
					g.Class("mt-1 w-full rounded-full bg-gray-100"),
					g.Div(g.Class("bar"), cmp.Attr("style", "width: "+strconv.Itoa(barWidth(r.count, top))+"%")),
				),
			)
		}),
	)
}

func trendTable(points []domain.TrendPoint) cmp.Node {
	if len(points) == 0 {
		return g.P(g.Class("text-sm text-gray-500"), cmp.Text("No registrations in this period."))
	}
	return g.Table(
		g.Class("min-w-full text-sm"),
		g.THead(g.Tr(
			g.Class("border-b text-left text-gray-500"),
			g.Th(g.Class("py-1"), cmp.Text("Date")),
			g.Th(g.Class("py-1 text-right"), cmp.Text("Registrations")),
		)),
		g.TBody(cmp.Map(points, func(p domain.TrendPoint) cmp.Node {
			return g.Tr(
				g.Class("border-b"),
				g.Td(g.Class("py-1"), cmp.Text(p.Date)),
				g.Td(g.Class("py-1 text-right"), cmp.Text(view.Count(p.Count))),
			)
		})),
	)
}

func recentUsers(users []domain.UserRecord) cmp.Node {
	if len(users) == 0 {
		return g.P(g.Class("text-sm text-gray-500"), cmp.Text("No recent registrations."))
	}
	return g.Ul(
		g.Class("divide-y"),
		cmp.Map(users, func(u domain.UserRecord) cmp.Node {
			return g.Li(
				g.Class("flex items-center gap-3 py-2"),
				avatar("", view.Initials(u.Name), "h-8 w-8 text-xs"),
				g.Div(
					g.Class("flex-1"),
					g.A(g.Href("/users/"+u.ID), g.Class("text-sm font-medium hover:underline"), cmp.Text(u.Name)),
					g.P(g.Class("text-xs text-gray-500"), cmp.Text(u.Email)),
				),
				g.Span(g.Class("text-xs text-gray-400"), cmp.Text(view.Date(u.CreatedAt))),
			)
		}),
	)
}
