package partials

import (
	"github.com/nfrund/authportal/internal/view"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Loading is the indicator shown while a guarded route is being resolved.
// It is the only content a redirecting guard ever emits.
func Loading() cmp.Node {
	return g.Div(
		g.ID("route-loading"),
		g.Class("min-h-screen flex items-center justify-center bg-gray-50"),
		g.Div(
			g.Class("text-center"),
			g.Div(g.Class("w-8 h-8 border-4 border-blue-600 border-t-transparent rounded-full animate-spin mx-auto mb-4")),
			g.P(g.Class("text-gray-600"), cmp.Text("Loading...")),
		),
	)
}

// Flashes renders one-shot success and error messages.
func Flashes(data view.FlashData) cmp.Node {
	if data.Empty() {
		return nil
	}
	return g.Div(
		g.ID("flashes"),
		g.Class("space-y-2 mb-4"),
		cmp.Map(data.Success, func(msg string) cmp.Node {
			return g.Div(g.Class("rounded-md bg-green-50 border border-green-200 p-3 text-green-800"), g.Role("status"), cmp.Text(msg))
		}),
		cmp.Map(data.Error, func(msg string) cmp.Node {
			return ErrorAlert(msg)
		}),
	)
}

// ErrorAlert renders a page-local error message.
func ErrorAlert(msg string) cmp.Node {
	if msg == "" {
		return nil
	}
	return g.Div(g.Class("rounded-md bg-red-50 border border-red-200 p-3 text-red-800"), g.Role("alert"), cmp.Text(msg))
}

// SuccessAlert renders a page-local confirmation.
func SuccessAlert(msg string) cmp.Node {
	if msg == "" {
		return nil
	}
	return g.Div(g.Class("rounded-md bg-green-50 border border-green-200 p-3 text-green-800"), g.Role("status"), cmp.Text(msg))
}

// FieldError renders the inline validation message for a form field.
func FieldError(errs view.FieldErrors, field string) cmp.Node {
	if !errs.Has(field) {
		return nil
	}
	return g.P(g.Class("mt-1 text-sm text-red-600"), g.Data("field-error", field), cmp.Text(errs.Get(field)))
}

// CSRFField embeds the anti-forgery token into a form.
func CSRFField(token string) cmp.Node {
	if token == "" {
		return nil
	}
	return g.Input(g.Type("hidden"), g.Name("_csrf"), g.Value(token))
}

// TextInput renders a labelled input with its inline error.
func TextInput(label, name, typ, value string, errs view.FieldErrors, extra ...cmp.Node) cmp.Node {
	inputClass := "mt-1 block w-full rounded-md border px-3 py-2"
	if errs.Has(name) {
		inputClass += " border-red-500"
	} else {
		inputClass += " border-gray-300"
	}
	return g.Div(
		g.Class("mb-4"),
		g.Label(g.For(name), g.Class("block text-sm font-medium text-gray-700"), cmp.Text(label)),
		g.Input(append([]cmp.Node{g.ID(name), g.Name(name), g.Type(typ), g.Value(value), g.Class(inputClass)}, extra...)...),
		FieldError(errs, name),
	)
}

// GenderSelect renders the gender picker used by the profile forms.
func GenderSelect(selected string, errs view.FieldErrors) cmp.Node {
	options := []struct{ Value, Label string }{
		{"", "Select gender"},
		{"male", "Male"},
		{"female", "Female"},
		{"other", "Other"},
	}
	return g.Div(
		g.Class("mb-4"),
		g.Label(g.For("gender"), g.Class("block text-sm font-medium text-gray-700"), cmp.Text("Gender")),
		g.Select(
			g.ID("gender"), g.Name("gender"),
			g.Class("mt-1 block w-full rounded-md border border-gray-300 px-3 py-2"),
			cmp.Map(options, func(o struct{ Value, Label string }) cmp.Node {
				return g.Option(g.Value(o.Value), cmp.If(o.Value == selected, g.Selected()), cmp.Text(o.Label))
			}),
		),
		FieldError(errs, "gender"),
	)
}
