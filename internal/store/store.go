// Package store persists the settings document. All mutations go through a
// single Store so concurrent settings-service requests never interleave
// writes (the patch engine itself is pure; serializing updates is our job).
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/skipper-desktop/skipctl/internal/config"
	"github.com/skipper-desktop/skipctl/internal/settings"
	"github.com/tidwall/jsonc"
)

const settingsFilename = "settings.json"

type Store struct {
	mu   sync.Mutex
	path string
	doc  map[string]any
}

// SettingsPath returns the default settings file location.
func SettingsPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFilename), nil
}

// Open loads the settings file at path, or the default document when no file
// exists yet. The file may contain comments; fields it doesn't mention keep
// their default values.
func Open(path string) (*Store, error) {
	current := settings.DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// first run, start from defaults
	case err != nil:
		return nil, fmt.Errorf("read settings file: %w", err)
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &current); err != nil {
			return nil, fmt.Errorf("parse settings file %s: %w", path, err)
		}
	}

	doc, err := current.ToMap()
	if err != nil {
		return nil, err
	}

	return &Store{path: path, doc: doc}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Snapshot returns an independent copy of the current document.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return settings.CopyTree(s.doc)
}

// Update applies fn to a copy of the current document and persists the
// result. The lock is held across the whole read-modify-write, so concurrent
// updates never build on a stale snapshot of each other.
func (s *Store) Update(apply func(doc map[string]any) (map[string]any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := apply(settings.CopyTree(s.doc))
	if err != nil {
		return err
	}
	return s.replaceLocked(updated)
}

// Replace swaps in a new document and persists it. The write is atomic: the
// document lands in a temp file that is renamed over the old one.
func (s *Store) Replace(doc map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(doc)
}

func (s *Store) replaceLocked(doc map[string]any) error {
	// Reject trees that no longer fit the schema before persisting anything.
	if _, err := settings.FromMap(doc); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	s.doc = settings.CopyTree(doc)
	return nil
}
