package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// card is the white panel most pages are built from.
func card(children ...cmp.Node) cmp.Node {
	return g.Div(append([]cmp.Node{g.Class("rounded-xl bg-white p-6 shadow")}, children...)...)
}

// narrowCard is a card centred at form width.
func narrowCard(children ...cmp.Node) cmp.Node {
	return g.Div(g.Class("mx-auto max-w-md"), card(children...))
}

func heading(title, subtitle string) cmp.Node {
	return g.Div(
		g.Class("mb-6 text-center"),
		g.H2(g.Class("text-2xl font-bold"), cmp.Text(title)),
		cmp.If(subtitle != "", g.P(g.Class("mt-1 text-sm text-gray-500"), cmp.Text(subtitle))),
	)
}

func submit(label string) cmp.Node {
	return g.Button(
		g.Type("submit"),
		g.Class("w-full rounded-md bg-blue-600 px-4 py-2 font-medium text-white hover:bg-blue-700"),
		cmp.Text(label),
	)
}

func avatar(pictureURL, initials, size string) cmp.Node {
	if pictureURL != "" {
		return g.Img(g.Src(pictureURL), g.Alt("Profile picture"), g.Class(size+" rounded-full object-cover"))
	}
	return g.Div(
		g.Class(size+" flex items-center justify-center rounded-full bg-blue-100 font-semibold text-blue-700"),
		cmp.Text(initials),
	)
}

// detail renders one label/value row of a definition list.
func detail(label, value string) cmp.Node {
	return g.Div(
		g.Class("flex justify-between border-b py-2 text-sm"),
		g.Dt(g.Class("text-gray-500"), cmp.Text(label)),
		g.Dd(g.Class("font-medium"), cmp.Text(value)),
	)
}
