package layouts

import "strings"

const appName = "Auth Portal"

// CalculateTitle handles the conditional logic for the document title.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - " + appName
	}
	return appName
}

// RouteHeading is the navbar title and subtitle for a path.
type RouteHeading struct {
	Title    string
	Subtitle string
}

// HeadingFor maps a request path onto its navbar heading.
func HeadingFor(path string) RouteHeading {
	switch {
	case path == "/profile":
		return RouteHeading{"Profile", "Manage your account"}
	case path == "/complete-profile":
		return RouteHeading{"Complete Profile", "Set up your account"}
	case path == "/users":
		return RouteHeading{"Users", "Browse all users"}
	case strings.HasPrefix(path, "/users/"):
		return RouteHeading{"User Profile", "View user details"}
	default:
		return RouteHeading{"Dashboard", "User Management System"}
	}
}

// showsPasswordAction reports whether the navbar offers the password panel
// on this path.
func showsPasswordAction(path string) bool {
	return path == "/profile" || path == "/complete-profile"
}
