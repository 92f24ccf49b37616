package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/context_loader/pkg/export"
	"github.com/Dicklesworthstone/context_loader/pkg/model"
	"github.com/Dicklesworthstone/context_loader/pkg/watch"
	"github.com/Dicklesworthstone/context_loader/pkg/workspace"
)

// CopyResultMsg is returned after a clipboard export completes.
type CopyResultMsg struct {
	Files int
	Bytes int
	Err   error
}

// RefreshDoneMsg carries a fresh crawl snapshot back to the update
// loop, which applies it to the session there. The command goroutine
// never mutates the session.
type RefreshDoneMsg struct {
	Files []model.FileRecord
	Err   error
}

// FilesChangedMsg signals that the filesystem watcher saw changes.
type FilesChangedMsg struct{}

// copySelectionCmd concatenates the selected files and puts the result
// on the clipboard.
func copySelectionCmd(session *workspace.Session) tea.Cmd {
	paths := session.SelectedPaths()
	return func() tea.Msg {
		if len(paths) == 0 {
			return CopyResultMsg{Err: fmt.Errorf("nothing selected")}
		}
		out, err := export.ConcatFiles(paths)
		if err != nil {
			return CopyResultMsg{Err: err}
		}
		if err := export.CopyToClipboard(out); err != nil {
			return CopyResultMsg{Err: err}
		}
		return CopyResultMsg{Files: len(paths), Bytes: len(out)}
	}
}

// refreshCmd re-lists the workspace in the background. Only the
// read-only crawl happens here; installing the snapshot is left to
// the update loop so the session is never written concurrently.
func refreshCmd(session *workspace.Session) tea.Cmd {
	return func() tea.Msg {
		files, err := session.CrawlSnapshot()
		return RefreshDoneMsg{Files: files, Err: err}
	}
}

// waitForChangesCmd blocks on the watcher channel and converts the
// next change signal into a message. The model re-issues it after
// every FilesChangedMsg.
func waitForChangesCmd(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return FilesChangedMsg{}
	}
}
