package tree

import (
	"sort"
	"testing"

	"pgregory.net/rapid"

	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

// genPaths draws a de-duplicated set of workspace-relative file paths
// with a small component alphabet so folder sharing actually happens.
func genPaths(t *rapid.T) []string {
	component := rapid.SampledFrom([]string{"alpha", "beta", "gamma", "delta"})
	leaf := rapid.SampledFrom([]string{"a.txt", "b.go", "c.md", "d.rs"})

	n := rapid.IntRange(1, 20).Draw(t, "count")
	seen := make(map[string]struct{})
	var paths []string
	for i := 0; i < n; i++ {
		depth := rapid.IntRange(0, 3).Draw(t, "depth")
		p := ""
		for d := 0; d < depth; d++ {
			p += component.Draw(t, "dir") + "/"
		}
		p += leaf.Draw(t, "leaf")
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}

func buildFromPaths(paths []string, selected model.SelectionSet) []*model.TreeNode {
	recs := make([]model.FileRecord, 0, len(paths))
	for _, p := range paths {
		recs = append(recs, model.FileRecord{Path: testRoot + "/" + p, Size: 1})
	}
	return BuildForest(recs, selected, testRoot)
}

// checkTriState asserts the folder aggregation rules hold for every
// folder in the forest after a recompute.
func checkTriState(t *rapid.T, forest []*model.TreeNode) {
	for _, root := range forest {
		root.Walk(func(n *model.TreeNode) bool {
			if n.IsFile() {
				if n.Selection == model.PartiallySelected {
					t.Fatalf("file %s is partially selected", n.Path)
				}
				return true
			}
			if got, want := n.Selection, FolderState(n.Children); got != want {
				t.Fatalf("folder %s: state %s, aggregation says %s", n.Path, got, want)
			}
			return true
		})
	}
}

func TestPropTriStateInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := genPaths(t)

		selected := model.NewSelectionSet()
		for _, p := range paths {
			if rapid.Bool().Draw(t, "pick") {
				selected.Add(testRoot + "/" + p)
			}
		}

		forest := buildFromPaths(paths, selected)
		RecomputeAll(forest)
		checkTriState(t, forest)
	})
}

func TestPropBuildDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := genPaths(t)

		a := buildFromPaths(paths, model.NewSelectionSet())

		shuffled := append([]string(nil), paths...)
		sort.Sort(sort.Reverse(sort.StringSlice(shuffled)))
		b := buildFromPaths(shuffled, model.NewSelectionSet())

		assertForestsEqual(t, a, b)
	})
}

func TestPropFolderToggleRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := genPaths(t)
		selected := model.NewSelectionSet()
		forest := buildFromPaths(paths, selected)

		var nodes []*model.TreeNode
		for _, root := range forest {
			root.Walk(func(n *model.TreeNode) bool {
				nodes = append(nodes, n)
				return true
			})
		}
		node := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "node")]

		ApplyToggle(selected, node, true)
		for _, p := range node.CollectFilePaths() {
			if !selected.Contains(p) {
				t.Fatalf("path %s missing after toggle on", p)
			}
		}

		ApplyToggle(selected, node, false)
		if selected.Len() != 0 {
			t.Fatalf("expected empty set after toggle off, got %v", selected.Sorted())
		}
	})
}

func assertForestsEqual(t *rapid.T, a, b []*model.TreeNode) {
	if len(a) != len(b) {
		t.Fatalf("root count mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		assertNodesEqual(t, a[i], b[i])
	}
}

func assertNodesEqual(t *rapid.T, a, b *model.TreeNode) {
	if a.ID != b.ID || a.Name != b.Name || a.Path != b.Path || a.Kind != b.Kind || a.Depth != b.Depth {
		t.Fatalf("node mismatch: %+v vs %+v", a, b)
	}
	if len(a.Children) != len(b.Children) {
		t.Fatalf("child count mismatch at %s: %d vs %d", a.Path, len(a.Children), len(b.Children))
	}
	for i := range a.Children {
		assertNodesEqual(t, a.Children[i], b.Children[i])
	}
}
