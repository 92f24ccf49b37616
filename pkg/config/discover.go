package config

import (
	"os"
	"path/filepath"
)

// DetectWorkspace attempts to find the enclosing workspace by walking
// up from the current directory looking for a .git directory.
func DetectWorkspace() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return FindGitRoot(dir)
}

// FindGitRoot walks up from dir looking for a .git directory. The
// search stops at the filesystem root and does not climb above the
// user's home directory.
func FindGitRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
