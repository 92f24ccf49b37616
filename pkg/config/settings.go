// Package config handles user settings, per-workspace configuration,
// and workspace discovery.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// MaxRecentWorkspaces caps the recent-workspace list.
const MaxRecentWorkspaces = 5

// Settings is the user-global configuration, stored as JSON under the
// user config directory.
type Settings struct {
	// RecentWorkspaces lists absolute workspace roots, most recent first.
	RecentWorkspaces []string `json:"recent_workspaces"`

	// Estimator names the default token estimator.
	Estimator string `json:"estimator,omitempty"`

	// path is where the settings were loaded from, kept for Save.
	path string
}

// SettingsPath returns the settings file location, creating no files.
func SettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "context-loader", "settings.json"), nil
}

// LoadSettings reads the settings file, returning zero-value settings
// when it does not exist yet.
func LoadSettings() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom reads settings from an explicit path.
func LoadSettingsFrom(path string) (*Settings, error) {
	s := &Settings{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Save writes the settings back to the file they were loaded from.
func (s *Settings) Save() error {
	if s.path == "" {
		p, err := SettingsPath()
		if err != nil {
			return err
		}
		s.path = p
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return os.WriteFile(s.path, append(data, '\n'), 0644)
}

// AddRecentWorkspace moves root to the front of the recent list,
// dropping duplicates and truncating to MaxRecentWorkspaces.
func (s *Settings) AddRecentWorkspace(root string) {
	filtered := make([]string, 0, len(s.RecentWorkspaces)+1)
	filtered = append(filtered, root)
	for _, p := range s.RecentWorkspaces {
		if p != root {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) > MaxRecentWorkspaces {
		filtered = filtered[:MaxRecentWorkspaces]
	}
	s.RecentWorkspaces = filtered
}
