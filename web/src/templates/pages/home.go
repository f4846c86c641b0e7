package pages

import (
	"github.com/nfrund/authportal/internal/domain"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Home is the public landing page. user is nil for anonymous visitors.
func Home(user *domain.UserSummary) cmp.Node {
	return g.Div(
		g.ID("home"),
		g.Class("mx-auto max-w-3xl py-16 text-center"),
		g.H1(g.Class("mb-6 text-5xl font-bold"), cmp.Text("Welcome to Auth Portal")),
		g.P(g.Class("mb-8 text-lg text-gray-600"), cmp.Text("Sign in with your email or Google account to manage your profile and browse the community.")),
		cmp.Iff(user != nil, func() cmp.Node {
			return g.Div(
				g.P(g.Class("mb-4 text-gray-700"), cmp.Text("Signed in as "+user.Email)),
				g.Div(
					g.Class("flex justify-center gap-4"),
					primaryLink("/dashboard", "Go to Dashboard"),
					secondaryLink("/profile", "View Profile"),
				),
			)
		}),
		cmp.If(user == nil, g.Div(
			g.Class("flex justify-center gap-4"),
			primaryLink("/signin", "Sign In"),
			secondaryLink("/signup", "Create Account"),
		)),
		g.Div(
			g.Class("mt-16 grid gap-6 text-left sm:grid-cols-3"),
			feature("Secure sessions", "Your token stays in a signed, HTTP-only cookie."),
			feature("Google sign-in", "Use your Google account and add a password later."),
			feature("User directory", "Browse members and registration analytics."),
		),
	)
}

func primaryLink(href, label string) cmp.Node {
	return g.A(g.Href(href), g.Class("rounded-md bg-blue-600 px-6 py-3 font-medium text-white hover:bg-blue-700"), cmp.Text(label))
}

func secondaryLink(href, label string) cmp.Node {
	return g.A(g.Href(href), g.Class("rounded-md border border-gray-300 px-6 py-3 font-medium hover:bg-gray-100"), cmp.Text(label))
}

func feature(title, body string) cmp.Node {
	return card(
		g.H3(g.Class("mb-2 font-semibold"), cmp.Text(title)),
		g.P(g.Class("text-sm text-gray-600"), cmp.Text(body)),
	)
}
