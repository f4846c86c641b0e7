// Package format renders CLI output as aligned tables or JSON.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nfrund/authportal/internal/server"
)

// RouteDisplay is a route as shown to the user.
type RouteDisplay struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Guard  string `json:"guard"`
	Adopts bool   `json:"adopts_session,omitempty"`
}

func displays(routes []server.Route) []RouteDisplay {
	out := make([]RouteDisplay, len(routes))
	for i, r := range routes {
		out[i] = RouteDisplay{Method: r.Method, Path: r.Path, Guard: r.Mode.String(), Adopts: r.Adopts}
	}
	return out
}

// RoutesTable writes routes as an aligned table.
func RoutesTable(w io.Writer, routes []server.Route) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "METHOD\tPATH\tGUARD\tNOTES")
	fmt.Fprintln(tw, "------\t----\t-----\t-----")
	if len(routes) == 0 {
		fmt.Fprintln(tw, "No routes found")
	}
	for _, r := range displays(routes) {
		notes := "-"
		if r.Adopts {
			notes = "adopts ?token=&user="
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Method, r.Path, r.Guard, notes)
	}
	return tw.Flush()
}

// RoutesJSON writes routes as indented JSON with a count.
func RoutesJSON(w io.Writer, routes []server.Route) error {
	output := struct {
		Routes []RouteDisplay `json:"routes"`
		Count  int            `json:"count"`
	}{
		Routes: displays(routes),
		Count:  len(routes),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
