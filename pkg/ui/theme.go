package ui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the colors and renderer shared by every view.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	// Selection states in the tree
	Checked lipgloss.AdaptiveColor
	Partial lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme returns the standard theme for the given renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#A78BFA"},
		Secondary: lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"},
		Highlight: lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#FACC15"},
		Muted:     lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#D1D5DB"},
		Border:    lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"},
		Checked:   lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"},
		Partial:   lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#FBBF24"},
		Base:      r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"}),
	}
}
