package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/deskhours/sucktorial/internal/factorial"
	"github.com/deskhours/sucktorial/internal/logger"
	"github.com/deskhours/sucktorial/internal/model"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	client *factorial.Client

	// Clock state, refreshed from the API
	authed bool
	open   *model.Shift
	shifts []model.Shift

	// UI state
	width       int
	height      int
	mode        Mode
	loading     bool
	now         time.Time
	lastRefresh time.Time

	spinner spinner.Model
	message string
	lastErr error
}

// NewModel creates a new TUI model
func NewModel(client *factorial.Client) Model {
	logger.Info("Initializing TUI model")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Primary)

	return Model{
		client:  client,
		mode:    ModeNormal,
		loading: true,
		now:     time.Now(),
		spinner: sp,
	}
}

// monthWorked sums the durations of the loaded shifts.
func (m Model) monthWorked() time.Duration {
	var total time.Duration
	for _, s := range m.shifts {
		total += s.Duration(m.now)
	}
	return total
}
