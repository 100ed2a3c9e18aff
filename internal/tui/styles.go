package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	markerFg  = lipgloss.Color("#EF4444")
	hoverFg   = lipgloss.Color("#FFA500")
	borderCol = lipgloss.Color("#243141")

	appStyle    = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	focusStyle  = boxStyle.BorderForeground(accentFg)
	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	markerStyle = lipgloss.NewStyle().Foreground(markerFg).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(baseFg).Background(lipgloss.Color("#1F2937"))
	hoverStyle  = lipgloss.NewStyle().Foreground(hoverFg)
	pickStyle   = lipgloss.NewStyle().Foreground(baseFg).Background(accentFg)
)
