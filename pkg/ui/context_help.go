package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders the compact keybinding reference modal.
// Content fits on one screen without scrolling.
func RenderHelp(theme Theme, width, height int) string {
	r := theme.Renderer

	modalWidth := 56
	if modalWidth > width-4 {
		modalWidth = width - 4
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)
	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	content := helpContent
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(modalWidth-6),
	); err == nil {
		if rendered, err := renderer.Render(helpContent); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Esc or ? to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	box := modalStyle.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

const helpContent = `**Navigation**
  j/k       Move up/down
  h/l       Collapse / expand folder
  g/G       Jump to top/bottom
  ctrl+d/u  Half page down/up

**Selection**
  space     Toggle file or folder
  a         Select all files
  n         Deselect all files

**Actions**
  c         Copy selected files to clipboard
  r         Re-scan the workspace
  e         Change token estimator
  /         Filter files by name`
