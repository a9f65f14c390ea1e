package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#6B7280") // Gray
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorMuted     = lipgloss.Color("#9CA3AF") // Light gray
	ColorSubtle    = lipgloss.Color("#555555")
)

// Text styles
var (
	Bold    = lipgloss.NewStyle().Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(ColorMuted)
	Primary = lipgloss.NewStyle().Foreground(ColorPrimary)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
)

// ID style - distinctive for record IDs
var ID = lipgloss.NewStyle().
	Foreground(ColorPrimary).
	Bold(true)

// Title style
var Title = lipgloss.NewStyle().Bold(true)

// TreeLine styles the tree connectors.
var TreeLine = lipgloss.NewStyle().Foreground(ColorSubtle)
