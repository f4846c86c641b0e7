package cmd

import (
	"fmt"
	"strings"

	"github.com/nfrund/authportal/cmd/authportal-cli/internal/format"
	"github.com/nfrund/authportal/internal/guard"
	"github.com/nfrund/authportal/internal/server"
	"github.com/spf13/cobra"
)

var (
	routesOutputFormat string
	routesGuardFilter  string
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the portal's routes and their guards",
	Long: `List every route the portal serves together with the guard that protects it.

Guards:
  RequireAuth       signed-in users only; others are sent to /signin
  RequireAnonymous  signed-out users only; others are sent to /profile
  Public            no guard

Examples:
  authportal-cli routes                       # Table of all routes
  authportal-cli routes --guard auth          # Only routes behind sign-in
  authportal-cli routes --format json         # Machine-readable output`,
	RunE: routesHandler,
}

func routesHandler(cmd *cobra.Command, args []string) error {
	mode, filtered, err := parseGuard(routesGuardFilter)
	if err != nil {
		return err
	}

	var routes []server.Route
	for _, r := range server.Routes {
		if !filtered || r.Mode == mode {
			routes = append(routes, r)
		}
	}

	switch routesOutputFormat {
	case "json":
		return format.RoutesJSON(cmd.OutOrStdout(), routes)
	case "table":
		return format.RoutesTable(cmd.OutOrStdout(), routes)
	default:
		return fmt.Errorf("unsupported output format '%s'. Use 'table' or 'json'", routesOutputFormat)
	}
}

// parseGuard maps a --guard value onto a mode. filtered is false when no
// filter was given.
func parseGuard(s string) (mode guard.Mode, filtered bool, err error) {
	switch strings.ToLower(s) {
	case "":
		return 0, false, nil
	case "auth":
		return guard.RequireAuth, true, nil
	case "anonymous", "anon":
		return guard.RequireAnonymous, true, nil
	case "public", "none":
		return 0, true, nil
	default:
		return 0, false, fmt.Errorf("invalid guard '%s'. Valid guards: auth, anonymous, public", s)
	}
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVarP(&routesOutputFormat, "format", "f", "table", "Output format (table, json)")
	routesCmd.Flags().StringVarP(&routesGuardFilter, "guard", "g", "", "Filter by guard (auth, anonymous, public)")
}
