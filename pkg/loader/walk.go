// Package loader walks workspaces, evaluates ignore rules, and seeds
// the initial file selection when a workspace is opened.
package loader

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

// ListWorkspaceFiles returns every file under root as a slash-separated
// path relative to root. The .git directory and the .cl state directory
// are always excluded. Symlinked directories are not followed; symlinked
// files are listed as-is.
func ListWorkspaceFiles(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var rels []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Printf("warning: skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && (d.Name() == ".git" || d.Name() == StateDirName) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// List symlinked files as-is but never descend into, or
			// list, symlinked directories.
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				return nil
			}
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			log.Printf("warning: not under workspace root, skipping %s: %v", path, err)
			return nil
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rels, nil
}

// Crawl lists the workspace and materializes a FileRecord per file.
// Records carry absolute paths; files that vanish between the listing
// and the stat are dropped.
func Crawl(root string) ([]model.FileRecord, error) {
	rels, err := ListWorkspaceFiles(root)
	if err != nil {
		return nil, err
	}

	recs := make([]model.FileRecord, 0, len(rels))
	for _, rel := range rels {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			log.Printf("warning: stat %s: %v", abs, err)
			continue
		}
		if info.IsDir() {
			continue
		}
		recs = append(recs, model.FileRecord{
			Path: abs,
			Name: info.Name(),
			Size: info.Size(),
		})
	}
	return recs, nil
}
