package view

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Label title-cases an enum-like value such as a gender or provider.
// Casers are stateful, so one is built per call.
func Label(s string) string {
	if s == "" {
		return "Not specified"
	}
	return cases.Title(language.English).String(s)
}

// Count formats n with thousands separators.
func Count(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// Date renders a timestamp as a short calendar date, or "Unknown".
func Date(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("Jan 2, 2006")
}

// Initials returns up to two leading letters of a display name for avatars.
func Initials(name string) string {
	var out []rune
	inWord := false
	for _, r := range name {
		if r == ' ' {
			inWord = false
			continue
		}
		if !inWord {
			out = append(out, r)
			inWord = true
			if len(out) == 2 {
				break
			}
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return cases.Upper(language.English).String(string(out))
}

// AssetURL resolves a picture path returned by the API against the API's
// origin. Absolute URLs pass through untouched.
func AssetURL(apiBase, path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	}
	origin := strings.TrimSuffix(strings.TrimRight(apiBase, "/"), "/api")
	return origin + "/" + strings.TrimLeft(path, "/")
}
