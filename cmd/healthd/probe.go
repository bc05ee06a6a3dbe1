package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// ErrUnhealthy is returned by probe when the endpoint does not answer 200.
var ErrUnhealthy = errors.New("healthd: endpoint unhealthy")

var probeFlags struct {
	timeout time.Duration
}

var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Query a health endpoint and exit non-zero unless it is healthy",
	Long: `Send one GET request to a health endpoint and print the response body.

The command fails when the request cannot be made or the endpoint answers
anything other than 200, which makes it suitable for container HEALTHCHECK
instructions.

Examples:
  healthd probe http://localhost:8080/health
  healthd probe --timeout 2s http://localhost:8080/health/postgres`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return probe(cmd.Context(), http.DefaultClient, args[0], probeFlags.timeout, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().DurationVar(&probeFlags.timeout, "timeout", 10*time.Second, "request timeout")
}

func probe(ctx context.Context, client *http.Client, url string, timeout time.Duration, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("probe: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnhealthy, resp.Status)
	}
	return nil
}
