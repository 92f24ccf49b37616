package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WorkspaceConfigName is the per-workspace config file inside the
// state directory.
const WorkspaceConfigName = "workspace.yaml"

// WorkspaceConfig holds per-workspace overrides (.cl/workspace.yaml).
type WorkspaceConfig struct {
	// Name is the workspace display name (default: directory name).
	Name string `yaml:"name,omitempty"`

	// ExtraIgnores are additional ignore-style patterns applied on top
	// of the workspace .gitignore when seeding the selection.
	ExtraIgnores []string `yaml:"extra_ignores,omitempty"`

	// Estimator overrides the global token estimator for this
	// workspace.
	Estimator string `yaml:"estimator,omitempty"`
}

// DisplayName returns the configured name or the base of root.
func (c *WorkspaceConfig) DisplayName(root string) string {
	if c != nil && c.Name != "" {
		return c.Name
	}
	return filepath.Base(root)
}

// LoadWorkspaceConfig reads .cl/workspace.yaml under root. A missing
// file yields a zero-value config and no error.
func LoadWorkspaceConfig(root, stateDir string) (*WorkspaceConfig, error) {
	path := filepath.Join(root, stateDir, WorkspaceConfigName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &WorkspaceConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read workspace config: %w", err)
	}

	var cfg WorkspaceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing workspace config: %w", err)
	}
	return &cfg, nil
}
