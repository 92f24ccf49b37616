package tree

import (
	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

// FolderState computes a folder's aggregate selection state from its
// immediate children:
//
//   - Selected when every child is Selected and there is at least one
//   - NotSelected when no child is Selected or PartiallySelected
//     (vacuously true for an empty folder)
//   - PartiallySelected otherwise
func FolderState(children []*model.TreeNode) model.SelectionState {
	if len(children) == 0 {
		return model.NotSelected
	}

	allSelected := true
	anyMarked := false

	for _, child := range children {
		switch child.Selection {
		case model.Selected:
			anyMarked = true
		case model.PartiallySelected:
			allSelected = false
			anyMarked = true
		default:
			allSelected = false
		}
	}

	switch {
	case allSelected:
		return model.Selected
	case anyMarked:
		return model.PartiallySelected
	default:
		return model.NotSelected
	}
}

// RecomputeAll recomputes every folder's selection state bottom-up,
// depth-first. It is idempotent and must run after every build; it is
// the only writer of folder selection states. File states are derived
// at build time and left untouched.
func RecomputeAll(forest []*model.TreeNode) {
	for _, node := range forest {
		if !node.IsFolder() {
			continue
		}
		if len(node.Children) > 0 {
			RecomputeAll(node.Children)
		}
		node.Selection = FolderState(node.Children)
	}
}

// ApplyToggle mutates the selection set for a user toggle of the given
// node. For a file the single path is inserted or removed; for a folder
// every descendant file path is inserted or removed as one batch.
// Folder paths themselves are never stored - a folder's visual state is
// always derived, never authoritative. The caller must rebuild (or at
// minimum re-run RecomputeAll over) the tree afterwards.
func ApplyToggle(set model.SelectionSet, node *model.TreeNode, checked bool) {
	for _, path := range node.CollectFilePaths() {
		if checked {
			set.Add(path)
		} else {
			set.Remove(path)
		}
	}
}
