package loader

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// StateDirName is the per-workspace directory holding local state
// (workspace config, tree expand state, token cache).
const StateDirName = ".cl"

// EnsureStateDirIgnored makes sure .cl/ is listed in the workspace
// .gitignore so local state never lands in the repository. Idempotent:
// it appends only when no existing pattern already covers the
// directory, and it creates .gitignore when the workspace has none.
func EnsureStateDirIgnored(root string) error {
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	path := filepath.Join(root, GitignoreName)
	covered, err := stateDirCovered(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if covered {
		return nil
	}
	return appendIgnoreEntry(path, StateDirName+"/")
}

func stateDirCovered(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		normalized := strings.TrimPrefix(line, "/")
		switch normalized {
		case StateDirName, StateDirName + "/", StateDirName + "/*", StateDirName + "/**":
			return true, nil
		}
	}
	return false, scanner.Err()
}

func appendIgnoreEntry(path, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	var toWrite string
	if len(content) == 0 {
		toWrite = "# context-loader local state\n" + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n# context-loader local state\n" + pattern + "\n"
	}

	_, err = f.WriteString(toWrite)
	return err
}
