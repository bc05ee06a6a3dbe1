package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile is the configuration file path. Empty means defaults and
// environment only.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "healthd",
	Short: "healthd - dependency health aggregation endpoint",
	Long: `healthd checks the dependencies of a service on every request and reports
their aggregated status as JSON.

The overall status is the worst component status. Down and OutOfService
respond with 503 so load balancers and orchestrators can act on it.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}
