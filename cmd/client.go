package cmd

import (
	"os"

	"github.com/skipper-desktop/skipctl/internal/client"
	"github.com/skipper-desktop/skipctl/internal/discovery"
)

// settingsClient is the slice of the HTTP client the commands use; tests
// substitute it.
type settingsClient interface {
	GetSettings() (map[string]any, error)
	PutSettings(doc map[string]any) (map[string]any, error)
	Shutdown() (string, error)
}

var newSettingsClient = func() (settingsClient, error) {
	return client.NewFromDiscovery(os.Getenv(discovery.EnvServerInfo))
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
