package cmd

import (
	"fmt"
	"reflect"

	"github.com/skipper-desktop/skipctl/internal/config"
	"github.com/skipper-desktop/skipctl/internal/logging"
	"github.com/skipper-desktop/skipctl/internal/settings"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set --dashed-path[=value] ...",
	Short: "Update settings in a running Skipper Desktop",
	Long: `Update one or more settings in a running Skipper Desktop.

Options name settings by their path in the settings document, with dashes
joining the levels. A boolean setting named without a value is turned on.
For example:

  skipctl set --kubernetes-version 1.23.7 --kubernetes-options-flannel=false
  skipctl set --kubernetes-suppressSudo`,
	// Settings paths are dynamic; the raw arguments go to the patch engine.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if wantsHelp(args) {
			return cmd.Help()
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		initializeCommandLogging(cmd.ErrOrStderr(), cfg.Logging, logging.RoleCLI)
		return doSetCommand(cmd, args)
	},
}

func doSetCommand(cmd *cobra.Command, args []string) error {
	c, err := newSettingsClient()
	if err != nil {
		return err
	}

	current, err := c.GetSettings()
	if err != nil {
		return fmt.Errorf("get current settings: %w", err)
	}

	updated, err := settings.UpdateFromCommandLine(current, args)
	if err != nil {
		return err
	}

	if reflect.DeepEqual(current, updated) {
		fmt.Fprintln(cmd.OutOrStdout(), "Status: no changes necessary.")
		return nil
	}

	if _, err := c.PutSettings(updated); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Status: settings updated; a restart of Skipper Desktop may be required.")
	return nil
}

func init() {
	rootCmd.AddCommand(setCmd)
}
