package pages

import (
	"github.com/nfrund/authportal/internal/view/dto/auth"
	"github.com/nfrund/authportal/web/src/templates/partials"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// CompleteProfileNotice is shown when the password panel is requested
// before the profile is finished.
const CompleteProfileNotice = "Please complete your profile first before changing password."

// SignIn renders the credentials form and the Google entry point.
func SignIn(data auth.SignInData) cmp.Node {
	return narrowCard(
		heading("Sign In", "Welcome back"),
		partials.ErrorAlert(data.Error),
		g.Form(
			g.ID("signin-form"), g.Method("post"), g.Action("/signin"),
			partials.CSRFField(data.CSRF),
			partials.TextInput("Email", "email", "email", data.Email, data.Errors, g.AutoComplete("email")),
			partials.TextInput("Password", "password", "password", "", data.Errors, g.AutoComplete("current-password")),
			submit("Sign In"),
		),
		googleButton(),
		g.P(
			g.Class("mt-4 text-center text-sm text-gray-600"),
			cmp.Text("Don't have an account? "),
			g.A(g.Href("/signup"), g.Class("text-blue-600 hover:underline"), cmp.Text("Sign up")),
		),
	)
}

// SignUp renders the registration form.
func SignUp(data auth.SignUpData) cmp.Node {
	return narrowCard(
		heading("Create Account", "Join in a few seconds"),
		partials.ErrorAlert(data.Error),
		g.Form(
			g.ID("signup-form"), g.Method("post"), g.Action("/signup"),
			partials.CSRFField(data.CSRF),
			partials.TextInput("Name", "name", "text", data.Name, data.Errors, g.AutoComplete("name")),
			partials.TextInput("Email", "email", "email", data.Email, data.Errors, g.AutoComplete("email")),
			partials.TextInput("Password", "password", "password", "", data.Errors, g.AutoComplete("new-password")),
			partials.TextInput("Confirm Password", "confirmPassword", "password", "", data.Errors, g.AutoComplete("new-password")),
			submit("Sign Up"),
		),
		googleButton(),
		g.P(
			g.Class("mt-4 text-center text-sm text-gray-600"),
			cmp.Text("Already have an account? "),
			g.A(g.Href("/signin"), g.Class("text-blue-600 hover:underline"), cmp.Text("Sign in")),
		),
	)
}

func googleButton() cmp.Node {
	return g.Div(
		g.Class("mt-4"),
		g.A(
			g.Href("/auth/google"),
			g.Class("block w-full rounded-md border border-gray-300 px-4 py-2 text-center font-medium hover:bg-gray-50"),
			cmp.Text("Continue with Google"),
		),
	)
}

// CompleteProfile collects the age and gender missing after registration,
// plus a first password for Google accounts.
func CompleteProfile(data auth.CompleteProfileData) cmp.Node {
	return g.Div(
		g.Class("mx-auto max-w-lg"),
		card(
			heading("Complete Your Profile", "Tell us a little more about yourself"),
			cmp.If(data.PasswordPanel, partials.ErrorAlert(CompleteProfileNotice)),
			partials.ErrorAlert(data.Error),
			g.Form(
				g.ID("complete-profile-form"), g.Method("post"), g.Action("/complete-profile"),
				partials.CSRFField(data.CSRF),
				partials.TextInput("Age", "age", "number", data.Age, data.Errors, g.Min("13"), g.Max("120")),
				partials.GenderSelect(data.Gender, data.Errors),
				cmp.If(data.AskPassword(), cmp.Group{
					g.P(g.Class("mb-2 text-sm text-gray-600"), cmp.Text("Set a password so you can also sign in with your email.")),
					partials.TextInput("Password", "password", "password", "", data.Errors, g.AutoComplete("new-password")),
					partials.TextInput("Confirm Password", "confirmPassword", "password", "", data.Errors, g.AutoComplete("new-password")),
				}),
				submit("Complete Profile"),
			),
		),
	)
}
