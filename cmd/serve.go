package cmd

import (
	"fmt"

	"github.com/skipper-desktop/skipctl/internal/config"
	"github.com/skipper-desktop/skipctl/internal/logging"
	"github.com/skipper-desktop/skipctl/internal/server"
	"github.com/spf13/cobra"
)

var serveAddress string
var startServer = server.Start
var serveLoadConfig = config.Load

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the settings service",
	Long: `Host the HTTP service that owns the persisted settings document.

Endpoints:
  GET  /v0/settings    Current settings document
  PUT  /v0/settings    Apply a settings JSON object (full or partial)
  POST /v0/shutdown    Stop the service
  GET  /health         Health check

The listening address is written to the connection-info file so skipctl
invocations can find the service.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := serveLoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if serveAddress != "" {
			cfg.Server.Address = serveAddress
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		initializeCommandLogging(cmd.ErrOrStderr(), cfg.Logging, logging.RoleServer)

		return startServer(cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "l", "", "Listen address (default from config, e.g. 127.0.0.1:6109)")

	rootCmd.AddCommand(serveCmd)
}
