package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listSettingsCmd = &cobra.Command{
	Use:   "list-settings",
	Short: "Show the current settings",
	Long:  `Fetch the settings document from the running Skipper Desktop and print it as JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newSettingsClient()
		if err != nil {
			return err
		}
		doc, err := c.GetSettings()
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("format settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listSettingsCmd)
}
