package tui

import "github.com/charmbracelet/lipgloss"

// Color palette based on TUI design
var (
	// Clock state colors
	ClockedIn  = lipgloss.Color("#95E1A3") // Green
	ClockedOut = lipgloss.Color("#6C757D") // Gray
	Warning    = lipgloss.Color("#FFE66D") // Yellow
	Failure    = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Clock state line
	ClockedInStyle = lipgloss.NewStyle().
			Foreground(ClockedIn).
			Bold(true).
			Padding(0, 1)

	ClockedOutStyle = lipgloss.NewStyle().
			Foreground(ClockedOut).
			Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Failure).
			Padding(0, 1)

	// Shift table
	TableStyle = lipgloss.NewStyle().
			Padding(0, 2)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(TextMuted).
				Bold(true)

	OpenShiftStyle = lipgloss.NewStyle().
			Foreground(ClockedIn).
			Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Help modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)
)
