// Package export turns a workspace selection into concatenated output
// for the clipboard, a file, or stdout.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CommonAncestor returns the deepest directory that contains every
// path. It starts at the first path's parent and walks upward until
// all paths fall beneath it; if no shared directory exists the result
// is empty and paths are used verbatim.
func CommonAncestor(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	parent := filepath.Dir(paths[0])
	for {
		all := true
		for _, p := range paths {
			if !within(p, parent) {
				all = false
				break
			}
		}
		if all {
			return parent
		}
		next := filepath.Dir(parent)
		if next == parent {
			return ""
		}
		parent = next
	}
}

func within(path, dir string) bool {
	if dir == "" {
		return true
	}
	sep := string(filepath.Separator)
	if dir == sep {
		return strings.HasPrefix(path, sep)
	}
	return strings.HasPrefix(path, dir+sep)
}

// ConcatFiles reads each path in order and joins the contents into one
// string. Every file gets a header line of the form
//
//	@@@ <path relative to the common ancestor> @@@
//
// followed by a blank line and the file content, with a blank line
// between consecutive blocks and no trailing separator. Relative
// headers that are not rooted get a ./ prefix.
func ConcatFiles(paths []string) (string, error) {
	ancestor := CommonAncestor(paths)

	var b strings.Builder
	for i, path := range paths {
		if i > 0 {
			b.WriteString("\n\n")
		}

		rel := path
		if ancestor != "" {
			if r, err := filepath.Rel(ancestor, path); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
		rel = filepath.ToSlash(rel)

		b.WriteString("@@@ ")
		if !strings.HasPrefix(rel, "/") && !strings.HasPrefix(rel, "./") {
			b.WriteString("./")
		}
		b.WriteString(rel)
		b.WriteString(" @@@\n\n")

		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		b.Write(content)
	}
	return b.String(), nil
}
