package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/context_loader/pkg/workspace"
)

func newTestModel(t *testing.T, files map[string]string) Model {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	session, err := workspace.Open(context.Background(), root, workspace.Options{})
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	t.Cleanup(func() { session.Close() })

	m := NewModel(session, nil, lipgloss.NewRenderer(nil))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, map[string]string{"a.txt": "a"})

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Error("expected quit message")
	}
}

func TestModelSelectAllKey(t *testing.T) {
	m := newTestModel(t, map[string]string{
		"a.txt":     "a",
		"dir/b.txt": "b",
	})

	updated, _ := m.Update(keyMsg("a"))
	m = updated.(Model)

	if m.session.SelectedCount() != 2 {
		t.Errorf("expected all files selected, got %d", m.session.SelectedCount())
	}
	if !strings.Contains(m.View(), "[x]") {
		t.Error("view should show checked boxes after select-all")
	}
}

func TestModelSpaceTogglesCursorNode(t *testing.T) {
	m := newTestModel(t, map[string]string{"a.txt": "a"})

	updated, _ := m.Update(keyMsg(" "))
	m = updated.(Model)
	if m.session.SelectedCount() != 1 {
		t.Fatalf("expected 1 selected after toggle, got %d", m.session.SelectedCount())
	}

	updated, _ = m.Update(keyMsg(" "))
	m = updated.(Model)
	if m.session.SelectedCount() != 0 {
		t.Errorf("expected deselected after second toggle, got %d", m.session.SelectedCount())
	}
}

func TestModelHelpToggle(t *testing.T) {
	m := newTestModel(t, map[string]string{"a.txt": "a"})

	updated, _ := m.Update(keyMsg("?"))
	m = updated.(Model)
	if m.currentView != viewHelp {
		t.Fatal("expected help view")
	}
	if !strings.Contains(m.View(), "Quick Reference") {
		t.Error("help view should render the reference")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.currentView != viewTree {
		t.Error("esc should close help")
	}
}

func TestModelFilterFlow(t *testing.T) {
	m := newTestModel(t, map[string]string{
		"main.go":   "m",
		"readme.md": "r",
	})

	updated, _ := m.Update(keyMsg("/"))
	m = updated.(Model)
	if !m.filtering {
		t.Fatal("expected filter input active")
	}

	updated, _ = m.Update(keyMsg("main"))
	m = updated.(Model)
	if m.tree.VisibleCount() != 1 {
		t.Errorf("expected 1 match, got %d", m.tree.VisibleCount())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.filtering || m.tree.Filter() != "" {
		t.Error("esc should cancel the filter")
	}
}

func TestModelRefreshMessage(t *testing.T) {
	m := newTestModel(t, map[string]string{"a.txt": "a"})

	files, err := m.session.CrawlSnapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	updated, _ := m.Update(RefreshDoneMsg{Files: files})
	m = updated.(Model)
	if m.statusIsErr {
		t.Error("successful refresh should not set an error status")
	}
	if m.status == "" {
		t.Error("expected a status message after refresh")
	}
	if len(m.session.Files()) != 1 {
		t.Errorf("snapshot should be applied to the session, got %d files", len(m.session.Files()))
	}
}

func TestModelFooterShowsCounts(t *testing.T) {
	m := newTestModel(t, map[string]string{"a.txt": "a"})

	if !strings.Contains(m.View(), "0/1 files") {
		t.Errorf("footer should show selection counts")
	}
}
