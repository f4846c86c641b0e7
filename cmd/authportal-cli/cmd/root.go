package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authportal-cli",
	Short: "Auth Portal CLI tool",
	Long: `authportal-cli inspects the Auth Portal and the account API behind it.

Available commands:
  routes    List the navigation surface and the guard on each route
  probe     Call an API endpoint the way the portal does and classify the result
  version   Print the CLI version

Use "authportal-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
