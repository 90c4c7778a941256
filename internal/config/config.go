// Package config holds skipctl's own configuration: where the settings
// service listens, where logs go, and where the Skipper Desktop application
// lives. The settings document itself is a separate concern, owned by the
// settings package and the store.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Application    ApplicationConfig    `yaml:"application"`
	VirtualMachine VirtualMachineConfig `yaml:"virtual_machine"`
	Logging        LoggingConfig        `yaml:"logging"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type ApplicationConfig struct {
	// Path overrides the per-OS lookup of the Skipper Desktop executable.
	Path string `yaml:"path"`
}

type VirtualMachineConfig struct {
	Name string `yaml:"name"`
}

type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address: "127.0.0.1:6109",
		},
		VirtualMachine: VirtualMachineConfig{
			Name: "0",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        defaultLogDir(),
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(configDir, "skipper-desktop"), nil
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from disk, falling back to defaults.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil // return defaults if we can't determine path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil // no config file, use defaults
		}
		return DefaultConfig(), fmt.Errorf("read config: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses config data over the defaults, so partial files
// inherit everything they don't mention.
func LoadFromBytes(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Logging.Dir = normalizeLoggingDir(cfg.Logging.Dir)
	return cfg, nil
}

// Init creates a default config file if one doesn't exist.
func Init() (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}
