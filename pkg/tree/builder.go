// Package tree builds the displayed folder/file hierarchy from the flat
// crawl result and computes tri-state selection values over it.
package tree

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

// BuildForest converts a flat list of file records plus the current
// selection set into an ordered forest of tree nodes rooted at the
// workspace root.
//
// Input files are sorted by path so node ordering and ID assignment are
// deterministic. Folder nodes are created lazily the first time a path
// needs them, with a single monotonically increasing ID counter shared
// across the whole build, so IDs follow first-encounter order of the
// sorted input. Folders get a provisional NotSelected state here;
// RecomputeAll owns the authoritative value.
func BuildForest(files []model.FileRecord, selected model.SelectionSet, root string) []*model.TreeNode {
	if len(files) == 0 {
		return nil
	}

	sorted := make([]model.FileRecord, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var roots []*model.TreeNode
	nextID := 0

	for i := range sorted {
		rec := &sorted[i]
		insertRecord(&roots, rec, selected, root, &nextID)
	}
	return roots
}

// insertRecord walks one record's relative path components left to
// right, descending through (and creating) folder nodes, and finally
// placing the file node.
func insertRecord(roots *[]*model.TreeNode, rec *model.FileRecord, selected model.SelectionSet, root string, nextID *int) {
	components := relativeComponents(rec.Path, root)
	children := roots
	accumulated := root

	for idx, component := range components {
		accumulated = filepath.Join(accumulated, component)
		last := idx == len(components)-1

		if last {
			// Duplicate input records for the same file are skipped.
			if fileExistsAt(*children, rec.Path) {
				return
			}
			state := model.NotSelected
			if selected.Contains(rec.Path) {
				state = model.Selected
			}
			name := rec.Name
			if name == "" {
				name = component
			}
			node := &model.TreeNode{
				ID:        *nextID,
				Name:      name,
				Path:      rec.Path,
				Kind:      model.KindFile,
				Depth:     idx,
				Selection: state,
			}
			*nextID++
			*children = append(*children, node)
			return
		}

		folder := findOrCreateFolder(children, component, accumulated, idx, nextID)
		children = &folder.Children
	}
}

// relativeComponents splits a file's path relative to the workspace
// root into path components. A file outside the root degrades to a
// single component (its own name) rather than being dropped.
func relativeComponents(path, root string) []string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return []string{filepath.Base(path)}
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

// fileExistsAt reports whether a file node with the given absolute path
// is already present in the children list. Folders never collide with
// files here: a file and a folder may share a name as two siblings.
func fileExistsAt(children []*model.TreeNode, path string) bool {
	for _, c := range children {
		if c.IsFile() && c.Path == path {
			return true
		}
	}
	return false
}

// findOrCreateFolder returns the folder node with the given name in the
// children list, creating it if absent. Lookup matches on (name, kind):
// an existing file with the same name is never reused as a folder.
func findOrCreateFolder(children *[]*model.TreeNode, name, path string, depth int, nextID *int) *model.TreeNode {
	for _, c := range *children {
		if c.IsFolder() && c.Name == name {
			return c
		}
	}

	node := &model.TreeNode{
		ID:        *nextID,
		Name:      name,
		Path:      path,
		Kind:      model.KindFolder,
		Depth:     depth,
		Expanded:  depth == 0,
		Selection: model.NotSelected,
	}
	*nextID++
	*children = append(*children, node)
	return node
}
