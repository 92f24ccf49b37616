package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/context_loader/pkg/tokens"
)

// EstimatorPickerModel is the modal for switching token estimators.
type EstimatorPickerModel struct {
	estimators    []tokens.Estimator
	current       tokens.Estimator
	selectedIndex int
	width         int
	height        int
	theme         Theme
}

// NewEstimatorPickerModel creates a picker with the current estimator
// highlighted.
func NewEstimatorPickerModel(current tokens.Estimator, theme Theme) EstimatorPickerModel {
	estimators := tokens.AllEstimators()
	selectedIdx := 0
	for i, e := range estimators {
		if e == current {
			selectedIdx = i
			break
		}
	}
	return EstimatorPickerModel{
		estimators:    estimators,
		current:       current,
		selectedIndex: selectedIdx,
		theme:         theme,
	}
}

// SetSize updates the picker dimensions.
func (m *EstimatorPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves selection up.
func (m *EstimatorPickerModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down.
func (m *EstimatorPickerModel) MoveDown() {
	if m.selectedIndex < len(m.estimators)-1 {
		m.selectedIndex++
	}
}

// SelectedEstimator returns the highlighted estimator.
func (m *EstimatorPickerModel) SelectedEstimator() tokens.Estimator {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.estimators) {
		return m.estimators[m.selectedIndex]
	}
	return tokens.DefaultEstimator
}

// View renders the picker overlay centered in the viewport.
func (m *EstimatorPickerModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	boxWidth := 38
	if m.width < 48 {
		boxWidth = m.width - 10
	}
	if boxWidth < 26 {
		boxWidth = 26
	}

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		MarginBottom(1)
	lines = append(lines, titleStyle.Render("Token Estimator"))
	lines = append(lines, "")

	for i, est := range m.estimators {
		isSelected := i == m.selectedIndex
		isCurrent := est == m.current

		itemStyle := t.Renderer.NewStyle()
		if isSelected {
			itemStyle = itemStyle.Foreground(t.Primary).Bold(true)
		} else {
			itemStyle = itemStyle.Foreground(t.Base.GetForeground())
		}

		prefix := "  "
		if isSelected {
			prefix = "> "
		}
		suffix := ""
		if isCurrent {
			checkStyle := t.Renderer.NewStyle().Foreground(t.Secondary)
			suffix = " " + checkStyle.Render("✓")
		}
		lines = append(lines, itemStyle.Render(prefix+est.Label())+suffix)
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("j/k: navigate | enter: apply | esc: cancel"))

	content := strings.Join(lines, "\n")

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(content),
	)
}
