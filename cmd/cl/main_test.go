package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/context_loader/pkg/config"
	"github.com/Dicklesworthstone/context_loader/pkg/workspace"
)

func TestResolveRoot_ExplicitArgument(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveRoot(dir, &config.Settings{})
	if err != nil {
		t.Fatalf("resolveRoot(%q) error: %v", dir, err)
	}
	abs, _ := filepath.Abs(dir)
	if got != abs {
		t.Errorf("resolveRoot = %q, want %q", got, abs)
	}
}

func TestResolveRoot_ArgumentMustBeDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := resolveRoot(file, &config.Settings{}); err == nil {
		t.Error("expected error for a non-directory argument")
	}
	if _, err := resolveRoot(filepath.Join(dir, "missing"), &config.Settings{}); err == nil {
		t.Error("expected error for a missing argument")
	}
}

func TestRunHeadless_ConcatToFile(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(rel, body string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite(".gitignore", "ignored.log\n")
	mustWrite("main.go", "package main\n")
	mustWrite("ignored.log", "noise\n")

	session, err := workspace.Open(context.Background(), root, workspace.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	out := filepath.Join(t.TempDir(), "bundle.txt")
	if err := runHeadless(session, false, false, out); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "@@@ ./main.go @@@") {
		t.Errorf("bundle missing main.go header:\n%s", text)
	}
	if strings.Contains(text, "@@@ ./ignored.log @@@") {
		t.Errorf("bundle should not include ignored files:\n%s", text)
	}
}

func TestRunHeadless_EmptySelectionFails(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	// No .gitignore means nothing is seeded as selected.
	session, err := workspace.Open(context.Background(), root, workspace.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	if err := runHeadless(session, false, true, ""); err == nil {
		t.Error("expected error when nothing is selected")
	}
}
