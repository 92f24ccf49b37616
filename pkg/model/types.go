package model

import (
	"fmt"
	"sort"
)

// FileRecord represents one file discovered by the workspace crawler.
// Identity is the absolute Path; records are treated as immutable once
// produced, and the whole list is replaced on every crawl.
type FileRecord struct {
	Path   string `json:"path"` // absolute path
	Name   string `json:"name"` // display name (base name)
	Size   int64  `json:"size"`
	Tokens int    `json:"tokens,omitempty"` // 0 until lazily estimated
}

// Validate checks if the record is logically valid
func (f *FileRecord) Validate() error {
	if f.Path == "" {
		return fmt.Errorf("file record path cannot be empty")
	}
	if f.Name == "" {
		return fmt.Errorf("file record name cannot be empty")
	}
	if f.Size < 0 {
		return fmt.Errorf("file record size (%d) cannot be negative", f.Size)
	}
	return nil
}

// NodeKind categorizes a tree node
type NodeKind string

const (
	KindFile   NodeKind = "file"
	KindFolder NodeKind = "folder"
)

// IsValid returns true if the kind is a recognized value
func (k NodeKind) IsValid() bool {
	switch k {
	case KindFile, KindFolder:
		return true
	}
	return false
}

// SelectionState is the tri-state selection value on a tree node.
// Files are only ever Selected or NotSelected; PartiallySelected is
// reachable for folders alone, and only via recompute.
type SelectionState string

const (
	Selected          SelectionState = "selected"
	NotSelected       SelectionState = "not_selected"
	PartiallySelected SelectionState = "partially_selected"
)

// IsValid returns true if the state is a recognized value
func (s SelectionState) IsValid() bool {
	switch s {
	case Selected, NotSelected, PartiallySelected:
		return true
	}
	return false
}

// TreeNode is one file or synthetic folder in the displayed hierarchy.
// Trees are ephemeral values: rebuilt from the flat file list plus the
// selection set whenever either changes, never patched node-by-node.
// Ownership is strict - every non-root node has exactly one parent and
// parents own their children outright.
type TreeNode struct {
	ID        int            `json:"id"` // unique within one build, not across rebuilds
	Name      string         `json:"name"`
	Path      string         `json:"path"` // folder paths are the accumulated ancestor prefix
	Kind      NodeKind       `json:"kind"`
	Children  []*TreeNode    `json:"children,omitempty"`
	Depth     int            `json:"depth"`
	Expanded  bool           `json:"expanded"`
	Selection SelectionState `json:"selection"`
}

// IsFile returns true for file nodes.
func (n *TreeNode) IsFile() bool { return n.Kind == KindFile }

// IsFolder returns true for synthetic folder nodes.
func (n *TreeNode) IsFolder() bool { return n.Kind == KindFolder }

// CollectFilePaths returns the absolute paths of every descendant file,
// depth-first. Called on a file node it returns that node's own path, so
// toggle batches work uniformly for both kinds.
func (n *TreeNode) CollectFilePaths() []string {
	var paths []string
	if n.IsFile() {
		return append(paths, n.Path)
	}
	for _, child := range n.Children {
		if child.IsFile() {
			paths = append(paths, child.Path)
		} else {
			paths = append(paths, child.CollectFilePaths()...)
		}
	}
	return paths
}

// Walk visits the node and all descendants depth-first, parents before
// children. The walk stops early if fn returns false.
func (n *TreeNode) Walk(fn func(*TreeNode) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of the node and its subtree.
func (n *TreeNode) Clone() *TreeNode {
	clone := *n
	if n.Children != nil {
		clone.Children = make([]*TreeNode, len(n.Children))
		for i, child := range n.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return &clone
}

// FindByID locates a node by ID anywhere in the forest, or nil.
func FindByID(forest []*TreeNode, id int) *TreeNode {
	var found *TreeNode
	for _, root := range forest {
		root.Walk(func(n *TreeNode) bool {
			if n.ID == id {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// SelectionSet is the set of absolute file paths currently marked
// selected - the single source of truth. Node selection states are
// always derived from it at build time, never the other way around.
type SelectionSet map[string]struct{}

// NewSelectionSet creates a selection set from the given paths.
func NewSelectionSet(paths ...string) SelectionSet {
	s := make(SelectionSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether path is selected.
func (s SelectionSet) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

// Add marks path as selected.
func (s SelectionSet) Add(path string) { s[path] = struct{}{} }

// Remove unmarks path.
func (s SelectionSet) Remove(path string) { delete(s, path) }

// Len returns the number of selected paths.
func (s SelectionSet) Len() int { return len(s) }

// Clone returns an independent copy of the set.
func (s SelectionSet) Clone() SelectionSet {
	c := make(SelectionSet, len(s))
	for p := range s {
		c[p] = struct{}{}
	}
	return c
}

// Sorted returns the selected paths in lexicographic order. Used for
// deterministic concatenation output and tests.
func (s SelectionSet) Sorted() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
