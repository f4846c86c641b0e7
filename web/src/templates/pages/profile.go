package pages

import (
	"github.com/nfrund/authportal/internal/view"
	"github.com/nfrund/authportal/internal/view/dto/account"
	"github.com/nfrund/authportal/web/src/templates/partials"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Profile renders the signed-in user's account page.
func Profile(data account.ProfileData) cmp.Node {
	u := data.User
	return g.Div(
		g.ID("profile"),
		g.Class("mx-auto max-w-3xl space-y-6"),
		partials.ErrorAlert(data.Error),
		partials.SuccessAlert(data.Success),
		card(
			g.Div(
				g.Class("flex items-center gap-4"),
				avatar(data.PictureURL, view.Initials(u.Name), "h-20 w-20"),
				g.Div(
					g.H2(g.Class("text-2xl font-bold"), cmp.Text(u.Name)),
					g.P(g.Class("text-gray-500"), cmp.Text(u.Email)),
				),
				g.Div(
					g.Class("ml-auto"),
					cmp.If(!data.Editing, g.A(
						g.Href("/profile?edit=1"),
						g.Class("rounded-md border px-3 py-1 text-sm hover:bg-gray-100"),
						cmp.Text("Edit Profile"),
					)),
				),
			),
			g.Dl(
				g.ID("profile-details"),
				g.Class("mt-6"),
				detail("Age", ageText(u.Age)),
				detail("Gender", view.Label(u.Gender)),
				detail("Sign-in method", view.Label(string(u.Provider))),
				detail("Password", passwordState(data)),
				cmp.If(!data.TokenExpires.IsZero(), detail("Session expires", data.TokenExpires.Local().Format("Jan 2, 2006 15:04"))),
			),
		),
		cmp.If(data.Editing, profileForm(data)),
		cmp.If(data.PasswordPanel, passwordForm(data)),
	)
}

func ageText(age int) string {
	if age <= 0 {
		return "Not specified"
	}
	return view.Count(age)
}

func passwordState(data account.ProfileData) string {
	if data.User.HasPassword {
		return "Set"
	}
	return "Not set"
}

func profileForm(data account.ProfileData) cmp.Node {
	return card(
		g.H3(g.Class("mb-4 text-lg font-semibold"), cmp.Text("Edit Profile")),
		g.Form(
			g.ID("profile-form"), g.Method("post"), g.Action("/profile"), g.EncType("multipart/form-data"),
			partials.CSRFField(data.CSRF),
			partials.TextInput("Name", "name", "text", data.Form.Name, data.Errors),
			partials.TextInput("Age", "age", "number", data.Form.Age, data.Errors, g.Min("13"), g.Max("120")),
			partials.GenderSelect(data.Form.Gender, data.Errors),
			g.Div(
				g.Class("mb-4"),
				g.Label(g.For("profilePicture"), g.Class("block text-sm font-medium text-gray-700"), cmp.Text("Profile Picture")),
				g.Input(g.ID("profilePicture"), g.Name("profilePicture"), g.Type("file"), g.Accept("image/*"), g.Class("mt-1 block w-full text-sm")),
				g.P(g.Class("mt-1 text-xs text-gray-500"), cmp.Text("Images up to 5MB.")),
				partials.FieldError(data.Errors, "profilePicture"),
			),
			g.Div(
				g.Class("flex gap-2"),
				submit("Save Changes"),
				g.A(g.Href("/profile"), g.Class("rounded-md border px-4 py-2 text-center hover:bg-gray-100"), cmp.Text("Cancel")),
			),
		),
	)
}

func passwordForm(data account.ProfileData) cmp.Node {
	label := data.PasswordLabel()
	return card(
		g.ID("password-panel"),
		g.H3(g.Class("mb-4 text-lg font-semibold"), cmp.Text(label)),
		partials.ErrorAlert(data.PasswordError),
		g.Form(
			g.ID("password-form"), g.Method("post"), g.Action("/profile/password"),
			partials.CSRFField(data.CSRF),
			cmp.If(data.User.NeedsCurrentPassword(),
				partials.TextInput("Current Password", "currentPassword", "password", "", data.PasswordErrors, g.AutoComplete("current-password")),
			),
			partials.TextInput("New Password", "newPassword", "password", "", data.PasswordErrors, g.AutoComplete("new-password")),
			partials.TextInput("Confirm New Password", "confirmPassword", "password", "", data.PasswordErrors, g.AutoComplete("new-password")),
			g.Div(
				g.Class("flex gap-2"),
				submit(label),
				g.A(g.Href("/profile"), g.Class("rounded-md border px-4 py-2 text-center hover:bg-gray-100"), cmp.Text("Cancel")),
			),
		),
	)
}
