// Package discovery locates the running settings service. The service
// advertises itself through a small connection-info file; the CLI reads that
// file instead of guessing ports.
package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skipper-desktop/skipctl/internal/config"
)

// EnvServerInfo overrides the connection-info file location.
const EnvServerInfo = "SKIPPER_DESKTOP_SERVER_INFO"

const serverInfoFilename = "server-info.json"

type ServerInfo struct {
	Address string `json:"address"`
	PID     int    `json:"pid"`
}

type Options struct {
	// Path names the connection-info file directly, bypassing both the
	// environment override and the default location.
	Path     string
	EnvPath  string
	readFile func(string) ([]byte, error)
}

// ServerInfoPath returns the default connection-info file location.
func ServerInfoPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, serverInfoFilename), nil
}

// Discover reads and validates the connection-info file.
func Discover(opts Options) (ServerInfo, error) {
	readFile := opts.readFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	path := opts.Path
	if path == "" {
		path = opts.EnvPath
	}
	if path == "" {
		defaultPath, err := ServerInfoPath()
		if err != nil {
			return ServerInfo{}, err
		}
		path = defaultPath
	}

	data, err := readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ServerInfo{}, fmt.Errorf("the Skipper Desktop settings server does not appear to be running (no connection info at %s)", path)
		}
		return ServerInfo{}, fmt.Errorf("read connection info %s: %w", path, err)
	}

	var info ServerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return ServerInfo{}, fmt.Errorf("parse connection info %s: %w", path, err)
	}
	if strings.TrimSpace(info.Address) == "" {
		return ServerInfo{}, fmt.Errorf("connection info %s has no server address", path)
	}

	return info, nil
}

// Write records the server's listening address for clients to discover.
// It returns the path written.
func Write(info ServerInfo) (string, error) {
	path, err := ServerInfoPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create connection info dir: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal connection info: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write connection info: %w", err)
	}
	return path, nil
}

// Remove deletes the connection-info file; a missing file is not an error.
func Remove() error {
	path, err := ServerInfoPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove connection info: %w", err)
	}
	return nil
}
