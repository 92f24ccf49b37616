package workspace

import (
	"log"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/Dicklesworthstone/context_loader/pkg/loader"
	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

// TreeState is the persisted expand/collapse state, saved to
// .cl/tree-state.json so folder expansion survives restarts. Only
// deviations from the default (expanded at depth 0, collapsed below)
// are stored, keyed by folder path.
type TreeState struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`
}

// TreeStateVersion is the current schema version for tree persistence.
const TreeStateVersion = 1

const treeStateFileName = "tree-state.json"

func treeStatePath(root string) string {
	return filepath.Join(root, loader.StateDirName, treeStateFileName)
}

// loadTreeState restores expand state from disk. A missing or corrupt
// file yields nil and defaults apply.
func loadTreeState(root string) *TreeState {
	data, err := os.ReadFile(treeStatePath(root))
	if err != nil {
		return nil
	}
	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: invalid tree state file, using defaults: %v", err)
		return nil
	}
	return &state
}

// saveTreeState walks the forest and records every folder whose expand
// state differs from the default. Errors are logged, never fatal.
func saveTreeState(root string, forest []*model.TreeNode) {
	state := &TreeState{
		Version:  TreeStateVersion,
		Expanded: make(map[string]bool),
	}
	for _, top := range forest {
		top.Walk(func(n *model.TreeNode) bool {
			if n.IsFolder() && n.Expanded != (n.Depth == 0) {
				state.Expanded[n.Path] = n.Expanded
			}
			return true
		})
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal tree state: %v", err)
		return
	}
	path := treeStatePath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("warning: failed to create state directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("warning: failed to write tree state to %s: %v", path, err)
	}
}

// applyTreeState sets expand flags on matching folders. Paths no
// longer in the tree are stale and silently ignored.
func applyTreeState(forest []*model.TreeNode, state *TreeState) {
	if state == nil || len(state.Expanded) == 0 {
		return
	}
	for _, top := range forest {
		top.Walk(func(n *model.TreeNode) bool {
			if n.IsFolder() {
				if expanded, ok := state.Expanded[n.Path]; ok {
					n.Expanded = expanded
				}
			}
			return true
		})
	}
}
