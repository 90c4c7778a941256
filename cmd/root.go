package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "skipctl",
	Short:   "Control Skipper Desktop from the command line",
	Version: Version,
	Long: `skipctl talks to a running Skipper Desktop over its local settings
service. It can show and update the application's settings, start the
application, open a shell in the managed VM, and shut the service down.

Usage:
  skipctl list-settings                       Show the current settings
  skipctl set --kubernetes-enabled=false      Update settings
  skipctl start --kubernetes-version 1.23.7   Start the app (or update settings)
  skipctl shell                               Open a shell in the managed VM`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
