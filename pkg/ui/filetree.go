package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/context_loader/pkg/model"
)

// FileTreeModel manages the navigable file tree: a cursor over the
// flattened list of visible nodes, scrolling, and an optional name
// filter.
type FileTreeModel struct {
	forest   []*model.TreeNode
	flatList []*model.TreeNode
	cursor   int
	theme    Theme

	width          int
	height         int
	viewportOffset int

	filter string
	tokens map[string]int
}

// NewFileTreeModel creates an empty tree view.
func NewFileTreeModel(theme Theme) FileTreeModel {
	return FileTreeModel{theme: theme}
}

// SetSize updates the available dimensions.
func (t *FileTreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.clampViewport()
}

// SetForest swaps in a freshly derived tree. The cursor stays on the
// same row index where possible. Token counts are indexed by path for
// per-row display.
func (t *FileTreeModel) SetForest(forest []*model.TreeNode, files []model.FileRecord) {
	t.forest = forest
	t.tokens = make(map[string]int, len(files))
	for _, rec := range files {
		t.tokens[rec.Path] = rec.Tokens
	}
	t.rebuildFlatList()
}

// SetFilter narrows the visible rows to files whose name contains the
// given substring (case-insensitive), together with their ancestor
// folders. An empty filter restores normal expand/collapse display.
func (t *FileTreeModel) SetFilter(filter string) {
	t.filter = strings.ToLower(filter)
	t.cursor = 0
	t.viewportOffset = 0
	t.rebuildFlatList()
}

// Filter returns the active filter string.
func (t *FileTreeModel) Filter() string { return t.filter }

// rebuildFlatList regenerates the visible-node list. With no filter a
// folder's children appear only while it is expanded; with a filter
// the expansion state is ignored so every match is reachable.
func (t *FileTreeModel) rebuildFlatList() {
	t.flatList = nil

	if t.filter == "" {
		var walk func(n *model.TreeNode)
		walk = func(n *model.TreeNode) {
			t.flatList = append(t.flatList, n)
			if n.IsFolder() && n.Expanded {
				for _, c := range n.Children {
					walk(c)
				}
			}
		}
		for _, top := range t.forest {
			walk(top)
		}
	} else {
		var walk func(n *model.TreeNode) bool
		walk = func(n *model.TreeNode) bool {
			if n.IsFile() {
				if strings.Contains(strings.ToLower(n.Name), t.filter) {
					t.flatList = append(t.flatList, n)
					return true
				}
				return false
			}
			mark := len(t.flatList)
			t.flatList = append(t.flatList, n)
			matched := false
			for _, c := range n.Children {
				if walk(c) {
					matched = true
				}
			}
			if !matched {
				// Drop the folder and any nested placeholder rows.
				t.flatList = t.flatList[:mark]
			}
			return matched
		}
		for _, top := range t.forest {
			walk(top)
		}
	}

	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.clampViewport()
}

// SelectedNode returns the node under the cursor, or nil.
func (t *FileTreeModel) SelectedNode() *model.TreeNode {
	if t.cursor >= 0 && t.cursor < len(t.flatList) {
		return t.flatList[t.cursor]
	}
	return nil
}

// VisibleCount returns the number of rows currently in the flat list.
func (t *FileTreeModel) VisibleCount() int { return len(t.flatList) }

// MoveDown moves the cursor down one row.
func (t *FileTreeModel) MoveDown() {
	if t.cursor < len(t.flatList)-1 {
		t.cursor++
	}
	t.clampViewport()
}

// MoveUp moves the cursor up one row.
func (t *FileTreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.clampViewport()
}

// JumpToTop moves the cursor to the first row.
func (t *FileTreeModel) JumpToTop() {
	t.cursor = 0
	t.clampViewport()
}

// JumpToBottom moves the cursor to the last row.
func (t *FileTreeModel) JumpToBottom() {
	if len(t.flatList) > 0 {
		t.cursor = len(t.flatList) - 1
	}
	t.clampViewport()
}

// PageDown moves the cursor down half a viewport.
func (t *FileTreeModel) PageDown() {
	page := t.height / 2
	if page < 1 {
		page = 5
	}
	t.cursor += page
	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.clampViewport()
}

// PageUp moves the cursor up half a viewport.
func (t *FileTreeModel) PageUp() {
	page := t.height / 2
	if page < 1 {
		page = 5
	}
	t.cursor -= page
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.clampViewport()
}

// clampViewport keeps the cursor inside the visible window.
func (t *FileTreeModel) clampViewport() {
	visible := t.height
	if visible <= 0 {
		visible = 20
	}
	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+visible {
		t.viewportOffset = t.cursor - visible + 1
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

func (t *FileTreeModel) visibleRange() (start, end int) {
	if len(t.flatList) == 0 {
		return 0, 0
	}
	visible := t.height
	if visible <= 0 {
		visible = 20
	}
	start = t.viewportOffset
	end = start + visible
	if end > len(t.flatList) {
		end = len(t.flatList)
	}
	return start, end
}

// checkbox returns the selection marker for a node.
func checkbox(n *model.TreeNode) string {
	switch n.Selection {
	case model.Selected:
		return "[x]"
	case model.PartiallySelected:
		return "[~]"
	default:
		return "[ ]"
	}
}

// expandIndicator returns the folder arrow or a leaf dot.
func (t *FileTreeModel) expandIndicator(n *model.TreeNode) string {
	if n.IsFile() {
		return "·"
	}
	if n.Expanded || t.filter != "" {
		return "▾"
	}
	return "▸"
}

// View renders the visible rows.
func (t *FileTreeModel) View() string {
	if len(t.flatList) == 0 {
		empty := t.theme.Renderer.NewStyle().Foreground(t.theme.Muted).Italic(true)
		if t.filter != "" {
			return empty.Render("No files match " + fmt.Sprintf("%q", t.filter))
		}
		return empty.Render("No files in workspace")
	}

	var b strings.Builder
	start, end := t.visibleRange()
	for i := start; i < end; i++ {
		b.WriteString(t.renderRow(t.flatList[i], i == t.cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (t *FileTreeModel) renderRow(n *model.TreeNode, selected bool) string {
	r := t.theme.Renderer

	checkStyle := r.NewStyle().Foreground(t.theme.Muted)
	switch n.Selection {
	case model.Selected:
		checkStyle = checkStyle.Foreground(t.theme.Checked)
	case model.PartiallySelected:
		checkStyle = checkStyle.Foreground(t.theme.Partial)
	}

	nameStyle := t.theme.Base
	if n.IsFolder() {
		nameStyle = r.NewStyle().Foreground(t.theme.Secondary).Bold(true)
	}
	if selected {
		nameStyle = nameStyle.Foreground(t.theme.Primary).Bold(true)
	}

	cursorMark := "  "
	if selected {
		cursorMark = r.NewStyle().Foreground(t.theme.Primary).Render("> ")
	}

	indent := strings.Repeat("  ", n.Depth)
	name := truncateName(n.Name, t.width-len(indent)-12)

	row := cursorMark + indent +
		t.theme.Renderer.NewStyle().Foreground(t.theme.Muted).Render(t.expandIndicator(n)) + " " +
		checkStyle.Render(checkbox(n)) + " " +
		nameStyle.Render(name)

	if n.IsFile() {
		if count, ok := t.tokens[n.Path]; ok && count > 0 {
			tokenStyle := r.NewStyle().Foreground(t.theme.Muted)
			row += tokenStyle.Render(fmt.Sprintf("  %s tok", formatCount(count)))
		}
	}
	return row
}

// truncateName cuts a display name to maxWidth terminal cells.
func truncateName(name string, maxWidth int) string {
	if maxWidth <= 1 {
		return name
	}
	if runewidth.StringWidth(name) <= maxWidth {
		return name
	}
	return runewidth.Truncate(name, maxWidth-1, "…")
}

// formatCount renders a token count compactly (1234 -> 1.2k).
func formatCount(n int) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}
