package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/session"
	"github.com/spf13/cobra"
)

var (
	probeAPIURL  string
	probeToken   string
	probeMethod  string
	probeTimeout time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe <endpoint>",
	Short: "Call an API endpoint through the portal's gateway",
	Long: `Call one endpoint of the account API exactly as the portal would and report
how the portal classifies the outcome. A 401 or 403 clears the session, so
the report shows whether the session would survive the call.

Examples:
  authportal-cli probe /users/analytics/overview --token "$TOKEN"
  authportal-cli probe /users --api http://localhost:5000/api`,
	Args: cobra.ExactArgs(1),
	RunE: probeHandler,
}

func probeHandler(cmd *cobra.Command, args []string) error {
	endpoint := args[0]
	client := apiclient.NewWithHTTPClient(probeAPIURL, &http.Client{Timeout: probeTimeout})

	store := session.NewMemoryStore()
	if probeToken != "" {
		if err := store.Set(session.KeyToken, probeToken); err != nil {
			return err
		}
	}

	raw, err := client.Call(context.Background(), store, endpoint, apiclient.Options{Method: strings.ToUpper(probeMethod)})
	kind := apiclient.Classify(err)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "endpoint:\t%s %s\n", strings.ToUpper(probeMethod), client.URL(endpoint))
	if status := apiclient.Status(err); status != 0 {
		fmt.Fprintf(w, "result:\t%s (status %d)\n", kind, status)
	} else {
		fmt.Fprintf(w, "result:\t%s\n", kind)
	}
	if err != nil {
		fmt.Fprintf(w, "message:\t%s\n", apiclient.Message(err))
	}
	if probeToken != "" {
		fmt.Fprintf(w, "session:\t%s\n", sessionOutcome(store))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(raw) > 0 {
		var pretty bytes.Buffer
		if json.Indent(&pretty, raw, "", "  ") == nil {
			raw = pretty.Bytes()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", raw)
	}

	if kind != apiclient.KindNone {
		return fmt.Errorf("probe failed: %s", kind)
	}
	return nil
}

func sessionOutcome(store session.Store) string {
	if session.Token(store) == "" {
		return "cleared"
	}
	return "kept"
}

func init() {
	rootCmd.AddCommand(probeCmd)

	defaultAPI := os.Getenv("API_URL")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:5000/api"
	}
	probeCmd.Flags().StringVar(&probeAPIURL, "api", defaultAPI, "API base URL (defaults to $API_URL)")
	probeCmd.Flags().StringVarP(&probeToken, "token", "t", "", "Bearer token to send")
	probeCmd.Flags().StringVarP(&probeMethod, "method", "X", http.MethodGet, "HTTP method")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 10*time.Second, "Request timeout")
}
