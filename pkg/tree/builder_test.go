package tree

import (
	"testing"

	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

const testRoot = "/ws"

// records builds crawl output for paths relative to the test root.
func records(paths ...string) []model.FileRecord {
	recs := make([]model.FileRecord, 0, len(paths))
	for _, p := range paths {
		abs := testRoot + "/" + p
		name := p
		if idx := lastSlash(p); idx >= 0 {
			name = p[idx+1:]
		}
		recs = append(recs, model.FileRecord{Path: abs, Name: name, Size: 1})
	}
	return recs
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func TestBuildForestEmpty(t *testing.T) {
	forest := BuildForest(nil, model.NewSelectionSet(), testRoot)
	if forest != nil {
		t.Errorf("expected nil forest for empty input, got %d roots", len(forest))
	}
}

func TestBuildForestFlatFiles(t *testing.T) {
	forest := BuildForest(records("b.txt", "a.txt"), model.NewSelectionSet(), testRoot)

	if len(forest) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(forest))
	}
	// Sorted by path: a.txt before b.txt, IDs in creation order.
	if forest[0].Name != "a.txt" || forest[1].Name != "b.txt" {
		t.Errorf("unexpected order: %s, %s", forest[0].Name, forest[1].Name)
	}
	if forest[0].ID != 0 || forest[1].ID != 1 {
		t.Errorf("expected IDs 0,1 got %d,%d", forest[0].ID, forest[1].ID)
	}
	for _, n := range forest {
		if !n.IsFile() {
			t.Errorf("%s: expected file kind", n.Name)
		}
		if n.Depth != 0 {
			t.Errorf("%s: expected depth 0, got %d", n.Name, n.Depth)
		}
	}
}

func TestBuildForestNesting(t *testing.T) {
	forest := BuildForest(records("src/sub/deep.go", "src/main.go"), model.NewSelectionSet(), testRoot)

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	src := forest[0]
	if !src.IsFolder() || src.Name != "src" || src.Depth != 0 {
		t.Fatalf("unexpected root: %+v", src)
	}
	if src.Path != testRoot+"/src" {
		t.Errorf("expected synthetic folder path %s/src, got %s", testRoot, src.Path)
	}
	if len(src.Children) != 2 {
		t.Fatalf("expected 2 children under src, got %d", len(src.Children))
	}

	// Sorted input: src/main.go first, so the file lands before sub/.
	if src.Children[0].Name != "main.go" || !src.Children[0].IsFile() {
		t.Errorf("expected main.go file first, got %+v", src.Children[0])
	}
	sub := src.Children[1]
	if !sub.IsFolder() || sub.Name != "sub" || sub.Depth != 1 {
		t.Fatalf("expected sub folder at depth 1, got %+v", sub)
	}
	if len(sub.Children) != 1 || sub.Children[0].Name != "deep.go" || sub.Children[0].Depth != 2 {
		t.Errorf("unexpected sub children: %+v", sub.Children)
	}
}

func TestBuildForestExpandDefaults(t *testing.T) {
	forest := BuildForest(records("top/mid/leaf.txt"), model.NewSelectionSet(), testRoot)

	top := forest[0]
	if !top.Expanded {
		t.Error("expected depth-0 folder to default expanded")
	}
	mid := top.Children[0]
	if mid.Expanded {
		t.Error("expected depth-1 folder to default collapsed")
	}
	if forest[0].Children[0].Children[0].Expanded {
		t.Error("expected file node to default collapsed")
	}
}

func TestBuildForestIDsFollowEncounterOrder(t *testing.T) {
	forest := BuildForest(records("src/a.go", "zz.txt"), model.NewSelectionSet(), testRoot)

	// Encounter order over sorted input: src folder, a.go, zz.txt.
	src := forest[0]
	if src.ID != 0 {
		t.Errorf("expected src folder ID 0, got %d", src.ID)
	}
	if src.Children[0].ID != 1 {
		t.Errorf("expected a.go ID 1, got %d", src.Children[0].ID)
	}
	if forest[1].ID != 2 {
		t.Errorf("expected zz.txt ID 2, got %d", forest[1].ID)
	}
}

func TestBuildForestDuplicateRecordsSkipped(t *testing.T) {
	recs := append(records("a.txt"), records("a.txt")...)
	forest := BuildForest(recs, model.NewSelectionSet(), testRoot)

	if len(forest) != 1 {
		t.Errorf("expected duplicate record to be skipped, got %d roots", len(forest))
	}
}

// A file "foo" and a folder "foo" (from "foo/bar.txt") coexist as two
// separate sibling nodes; they are never merged.
func TestBuildForestFileFolderNameCollision(t *testing.T) {
	forest := BuildForest(records("foo", "foo/bar.txt"), model.NewSelectionSet(), testRoot)

	if len(forest) != 2 {
		t.Fatalf("expected 2 sibling roots named foo, got %d", len(forest))
	}

	var file, folder *model.TreeNode
	for _, n := range forest {
		if n.IsFile() {
			file = n
		} else {
			folder = n
		}
	}
	if file == nil || folder == nil {
		t.Fatalf("expected one file and one folder, got %+v", forest)
	}
	if file.Name != "foo" || folder.Name != "foo" {
		t.Errorf("expected both siblings named foo, got %q and %q", file.Name, folder.Name)
	}
	if len(folder.Children) != 1 || folder.Children[0].Name != "bar.txt" {
		t.Errorf("expected folder foo to contain bar.txt, got %+v", folder.Children)
	}
}

func TestBuildForestOutsideRootFallsBackToName(t *testing.T) {
	recs := []model.FileRecord{{Path: "/elsewhere/deep/odd.txt", Name: "odd.txt", Size: 1}}
	forest := BuildForest(recs, model.NewSelectionSet(), testRoot)

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	n := forest[0]
	if !n.IsFile() || n.Name != "odd.txt" || n.Depth != 0 {
		t.Errorf("expected single-component fallback file node, got %+v", n)
	}
	if n.Path != "/elsewhere/deep/odd.txt" {
		t.Errorf("absolute path must be preserved, got %s", n.Path)
	}
}

func TestBuildForestFileSelectionDerivedFromSet(t *testing.T) {
	selected := model.NewSelectionSet(testRoot + "/src/a.go")
	forest := BuildForest(records("src/a.go", "src/b.go"), selected, testRoot)

	src := forest[0]
	if src.Children[0].Selection != model.Selected {
		t.Errorf("expected a.go Selected, got %s", src.Children[0].Selection)
	}
	if src.Children[1].Selection != model.NotSelected {
		t.Errorf("expected b.go NotSelected, got %s", src.Children[1].Selection)
	}
	// Folder state is provisional until RecomputeAll runs.
	if src.Selection != model.NotSelected {
		t.Errorf("expected provisional NotSelected on folder, got %s", src.Selection)
	}
}
