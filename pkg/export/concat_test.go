package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCommonAncestor(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"empty", nil, ""},
		{"single file", []string{"/ws/src/a.go"}, "/ws/src"},
		{"siblings", []string{"/ws/src/a.go", "/ws/src/b.go"}, "/ws/src"},
		{"nested", []string{"/ws/src/a.go", "/ws/src/sub/b.go"}, "/ws/src"},
		{"diverging", []string{"/ws/src/a.go", "/ws/doc/b.md"}, "/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommonAncestor(tt.paths); got != tt.want {
				t.Errorf("CommonAncestor(%v) = %q, want %q", tt.paths, got, tt.want)
			}
		})
	}
}

// TestConcatFilesExactOutput pins the byte-level output format.
func TestConcatFilesExactOutput(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha")
	b := writeFile(t, dir, "sub/b.txt", "beta\n")

	got, err := ConcatFiles([]string{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "@@@ ./a.txt @@@\n\nalpha\n\n@@@ ./sub/b.txt @@@\n\nbeta\n"
	if got != want {
		t.Errorf("output mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestConcatFilesSingleFileNoTrailingSeparator(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "only.txt", "content")

	got, err := ConcatFiles([]string{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, "content") {
		t.Errorf("no separator may follow the last file, got %q", got)
	}
	if got != "@@@ ./only.txt @@@\n\ncontent" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConcatFilesEmptyInput(t *testing.T) {
	got, err := ConcatFiles(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestConcatFilesMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := ConcatFiles([]string{filepath.Join(dir, "nope.txt")}); err == nil {
		t.Error("expected error for unreadable file")
	}
}
