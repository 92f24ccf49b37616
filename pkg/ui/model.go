package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/context_loader/pkg/model"
	"github.com/Dicklesworthstone/context_loader/pkg/watch"
	"github.com/Dicklesworthstone/context_loader/pkg/workspace"
)

type view int

const (
	viewTree view = iota
	viewEstimator
	viewHelp
)

// Model is the top-level bubbletea model for the file picker.
type Model struct {
	session *workspace.Session
	watcher *watch.Watcher
	theme   Theme

	tree            FileTreeModel
	estimatorPicker EstimatorPickerModel
	filterInput     textinput.Model

	currentView view
	filtering   bool

	status      string
	statusIsErr bool

	width  int
	height int
	ready  bool
}

// NewModel creates the app model around an open session. The watcher
// may be nil to disable live re-crawling.
func NewModel(session *workspace.Session, watcher *watch.Watcher, renderer *lipgloss.Renderer) Model {
	theme := DefaultTheme(renderer)

	ti := textinput.New()
	ti.Placeholder = "filter files"
	ti.Prompt = "/ "
	ti.CharLimit = 120

	tree := NewFileTreeModel(theme)
	tree.SetForest(session.Forest(), session.Files())

	return Model{
		session:     session,
		watcher:     watcher,
		theme:       theme,
		tree:        tree,
		filterInput: ti,
		currentView: viewTree,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChangesCmd(m.watcher)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.tree.SetSize(msg.Width, m.treeHeight())
		m.estimatorPicker.SetSize(msg.Width, msg.Height)

	case CopyResultMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("copy failed: %v", msg.Err)
			m.statusIsErr = true
		} else {
			m.status = fmt.Sprintf("copied %d files (%s) to clipboard", msg.Files, formatBytes(msg.Bytes))
			m.statusIsErr = false
		}

	case RefreshDoneMsg:
		err := msg.Err
		if err == nil {
			err = m.session.ApplyRefresh(context.Background(), msg.Files)
		}
		if err != nil {
			m.status = fmt.Sprintf("refresh failed: %v", err)
			m.statusIsErr = true
		} else {
			m.status = "workspace re-scanned"
			m.statusIsErr = false
			m.syncTree()
		}

	case FilesChangedMsg:
		cmds = append(cmds, refreshCmd(m.session), waitForChangesCmd(m.watcher))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch m.currentView {
	case viewHelp:
		switch msg.String() {
		case "esc", "?", "q":
			m.currentView = viewTree
		}
		return m, nil

	case viewEstimator:
		switch msg.String() {
		case "esc":
			m.currentView = viewTree
		case "j", "down":
			m.estimatorPicker.MoveDown()
		case "k", "up":
			m.estimatorPicker.MoveUp()
		case "enter":
			est := m.estimatorPicker.SelectedEstimator()
			m.currentView = viewTree
			if err := m.session.SetEstimator(context.Background(), est); err != nil {
				m.status = fmt.Sprintf("estimator: %v", err)
				m.statusIsErr = true
			} else {
				m.status = "estimator: " + est.Label()
				m.statusIsErr = false
				m.syncTree()
			}
		}
		return m, nil
	}

	// Tree view
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "j", "down":
		m.tree.MoveDown()
	case "k", "up":
		m.tree.MoveUp()
	case "g", "home":
		m.tree.JumpToTop()
	case "G", "end":
		m.tree.JumpToBottom()
	case "ctrl+d", "pgdown":
		m.tree.PageDown()
	case "ctrl+u", "pgup":
		m.tree.PageUp()

	case "l", "right", "enter":
		if node := m.tree.SelectedNode(); node != nil && node.IsFolder() {
			m.session.ToggleExpanded(node.ID)
			m.syncTree()
		}
	case "h", "left":
		if node := m.tree.SelectedNode(); node != nil && node.IsFolder() && node.Expanded {
			m.session.ToggleExpanded(node.ID)
			m.syncTree()
		}

	case " ":
		if node := m.tree.SelectedNode(); node != nil {
			checked := node.Selection != model.Selected
			if _, err := m.session.ToggleNode(context.Background(), node.ID, checked); err != nil {
				m.status = err.Error()
				m.statusIsErr = true
			} else {
				m.syncTree()
			}
		}
	case "a":
		m.session.SelectAll(context.Background())
		m.syncTree()
	case "n":
		m.session.DeselectAll()
		m.syncTree()

	case "c":
		m.status = "copying..."
		m.statusIsErr = false
		return m, copySelectionCmd(m.session)
	case "r":
		m.status = "re-scanning..."
		m.statusIsErr = false
		return m, refreshCmd(m.session)

	case "e":
		m.estimatorPicker = NewEstimatorPickerModel(m.session.Estimator(), m.theme)
		m.estimatorPicker.SetSize(m.width, m.height)
		m.currentView = viewEstimator
	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.tree.Filter())
		m.filterInput.Focus()
		m.tree.SetSize(m.width, m.treeHeight())
		return m, textinput.Blink
	case "?":
		m.currentView = viewHelp
	case "esc":
		if m.tree.Filter() != "" {
			m.tree.SetFilter("")
			m.tree.SetSize(m.width, m.treeHeight())
		}
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.tree.SetFilter("")
		m.tree.SetSize(m.width, m.treeHeight())
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		m.tree.SetSize(m.width, m.treeHeight())
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.tree.SetFilter(m.filterInput.Value())
	return m, cmd
}

// syncTree refreshes the tree view from the session's current state.
func (m *Model) syncTree() {
	m.tree.SetForest(m.session.Forest(), m.session.Files())
}

// treeHeight returns the rows available to the tree after the footer
// and the optional filter line.
func (m Model) treeHeight() int {
	h := m.height - 1
	if m.filtering || m.tree.Filter() != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.currentView {
	case viewHelp:
		return RenderHelp(m.theme, m.width, m.height)
	case viewEstimator:
		return m.estimatorPicker.View()
	}

	sections := []string{m.tree.View()}
	if m.filtering || m.tree.Filter() != "" {
		sections = append(sections, m.filterInput.View())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderFooter() string {
	r := m.theme.Renderer

	nameStyle := r.NewStyle().
		Background(m.theme.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#111827"}).
		Bold(true).
		Padding(0, 1)
	statsStyle := r.NewStyle().Foreground(m.theme.Subtext).Padding(0, 1)
	helpStyle := r.NewStyle().Foreground(m.theme.Muted).Padding(0, 1)

	name := nameStyle.Render(m.session.Config().DisplayName(m.session.Root()))
	stats := statsStyle.Render(fmt.Sprintf(
		"%d/%d files · %s tok · %s",
		m.session.SelectedCount(),
		len(m.session.Files()),
		formatCount(m.session.SelectedTokens()),
		m.session.Estimator().Label(),
	))

	statusTxt := ""
	if m.status != "" {
		style := r.NewStyle().Foreground(m.theme.Secondary).Padding(0, 1)
		if m.statusIsErr {
			style = style.Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"})
		}
		statusTxt = style.Render(m.status)
	}

	keys := helpStyle.Render("space: toggle · c: copy · /: filter · ?: help · q: quit")

	left := lipgloss.JoinHorizontal(lipgloss.Bottom, name, stats, statusTxt)
	remaining := m.width - lipgloss.Width(left) - lipgloss.Width(keys)
	if remaining < 0 {
		remaining = 0
	}
	filler := r.NewStyle().Width(remaining).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, filler, keys)
}

// formatBytes renders a byte count compactly.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
